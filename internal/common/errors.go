// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Бизнес-отказы (нехватка кредитов, исчерпанный лимит и т.п.) — это
// нормальные негативные исходы, а не исключения: обработчики различают
// их через errors.Is и отвечают пользователю понятным текстом.
package common

import "errors"

// Ошибки экономики (кредиты, переводы, кражи)
var (
	// ErrInsufficientBalance — недостаточно кредитов на счёте
	ErrInsufficientBalance = errors.New("недостаточно кредитов на счёте")
	// ErrSelfTransfer — попытка перевести кредиты самому себе
	ErrSelfTransfer = errors.New("нельзя переводить кредиты самому себе")
	// ErrSelfSteal — попытка обокрасть самого себя
	ErrSelfSteal = errors.New("нельзя красть у самого себя")
	// ErrInvalidAmount — некорректная сумма (ноль или отрицательная)
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
	// ErrVictimBroke — у жертвы нечего красть
	ErrVictimBroke = errors.New("у жертвы пустой счёт, красть нечего")
	// ErrStealTooGreedy — запрошено больше, чем есть у жертвы
	ErrStealTooGreedy = errors.New("нельзя украсть больше, чем есть у жертвы")
	// ErrUserNotFound — пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
	// ErrDailyLimitReached — дневной лимит действия исчерпан
	ErrDailyLimitReached = errors.New("дневной лимит исчерпан, приходи завтра")
)

// Ошибки рулетки
var (
	// ErrUnknownBetKind — нераспознанный тип ставки
	ErrUnknownBetKind = errors.New("неизвестный тип ставки")
)

// Ошибки викторины
var (
	// ErrNoQuestionsMatch — под фильтры не подходит ни один вопрос
	ErrNoQuestionsMatch = errors.New("под такие фильтры вопросов нет")
	// ErrQuestionsExhausted — подходящие вопросы есть, но все уже отвечены
	ErrQuestionsExhausted = errors.New("все подходящие вопросы уже отвечены")
	// ErrSessionNotFound — сессия викторины не найдена (истекла или чужая)
	ErrSessionNotFound = errors.New("сессия викторины не найдена")
)

// Ошибки админки
var (
	// ErrNotAdmin — пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrWrongPassword — неверный пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
	// ErrSessionExpired — сессия истекла
	ErrSessionExpired = errors.New("сессия истекла, авторизуйтесь заново")
)
