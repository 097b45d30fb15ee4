package quiz

// Статический банк вопросов. ID не переиспользуются: по ним в БД
// помечаются уже отвеченные вопросы, чтобы не выдавать повторы.

var boolOptions = []string{"Правда", "Ложь"}

var questionBank = []Question{
	// --- кино ---
	{
		ID: 1, Category: "кино", Type: TypeBoolean, Difficulty: DifficultyEasy,
		Text:          "Фильм «Титаник» снял Джеймс Кэмерон",
		Options:       boolOptions,
		CorrectAnswer: "Правда",
	},
	{
		ID: 2, Category: "кино", Type: TypeBoolean, Difficulty: DifficultyMedium,
		Text:          "Квентин Тарантино снял фильм «Большой куш»",
		Options:       boolOptions,
		CorrectAnswer: "Ложь",
	},
	{
		ID: 3, Category: "кино", Type: TypeMultiple, Difficulty: DifficultyEasy,
		Text:          "Кто сыграл Нео в фильме «Матрица»?",
		Options:       []string{"Киану Ривз", "Брэд Питт", "Том Круз", "Уилл Смит"},
		CorrectAnswer: "Киану Ривз",
	},
	{
		ID: 4, Category: "кино", Type: TypeMultiple, Difficulty: DifficultyMedium,
		Text:          "В каком году вышел первый фильм «Звёздные войны»?",
		Options:       []string{"1975", "1977", "1980", "1983"},
		CorrectAnswer: "1977",
	},
	{
		ID: 5, Category: "кино", Type: TypeMultiple, Difficulty: DifficultyHard,
		Text:          "Какой фильм Андрея Тарковского вышел последним?",
		Options:       []string{"Ностальгия", "Сталкер", "Жертвоприношение", "Зеркало"},
		CorrectAnswer: "Жертвоприношение",
	},
	{
		ID: 6, Category: "кино", Type: TypeBoolean, Difficulty: DifficultyHard,
		Text:          "Фильм «Бегущий по лезвию» снят по роману Филипа Дика «Убик»",
		Options:       boolOptions,
		CorrectAnswer: "Ложь",
	},

	// --- наука ---
	{
		ID: 7, Category: "наука", Type: TypeBoolean, Difficulty: DifficultyEasy,
		Text:          "Вода кипит при 100 градусах Цельсия на уровне моря",
		Options:       boolOptions,
		CorrectAnswer: "Правда",
	},
	{
		ID: 8, Category: "наука", Type: TypeMultiple, Difficulty: DifficultyEasy,
		Text:          "Какая планета ближе всех к Солнцу?",
		Options:       []string{"Венера", "Меркурий", "Марс", "Земля"},
		CorrectAnswer: "Меркурий",
	},
	{
		ID: 9, Category: "наука", Type: TypeMultiple, Difficulty: DifficultyMedium,
		Text:          "Какой химический элемент обозначается символом Au?",
		Options:       []string{"Серебро", "Алюминий", "Золото", "Аргон"},
		CorrectAnswer: "Золото",
	},
	{
		ID: 10, Category: "наука", Type: TypeBoolean, Difficulty: DifficultyMedium,
		Text:          "Звук распространяется в вакууме",
		Options:       boolOptions,
		CorrectAnswer: "Ложь",
	},
	{
		ID: 11, Category: "наука", Type: TypeMultiple, Difficulty: DifficultyHard,
		Text:          "Сколько костей в теле взрослого человека?",
		Options:       []string{"206", "212", "198", "220"},
		CorrectAnswer: "206",
	},
	{
		ID: 12, Category: "наука", Type: TypeBoolean, Difficulty: DifficultyHard,
		Text:          "Гелий был открыт на Солнце раньше, чем найден на Земле",
		Options:       boolOptions,
		CorrectAnswer: "Правда",
	},

	// --- история ---
	{
		ID: 13, Category: "история", Type: TypeBoolean, Difficulty: DifficultyEasy,
		Text:          "Великая Отечественная война началась в 1941 году",
		Options:       boolOptions,
		CorrectAnswer: "Правда",
	},
	{
		ID: 14, Category: "история", Type: TypeMultiple, Difficulty: DifficultyEasy,
		Text:          "Кто был первым человеком в космосе?",
		Options:       []string{"Юрий Гагарин", "Нил Армстронг", "Алексей Леонов", "Герман Титов"},
		CorrectAnswer: "Юрий Гагарин",
	},
	{
		ID: 15, Category: "история", Type: TypeMultiple, Difficulty: DifficultyMedium,
		Text:          "В каком году пала Византийская империя?",
		Options:       []string{"1453", "1389", "1204", "1492"},
		CorrectAnswer: "1453",
	},
	{
		ID: 16, Category: "история", Type: TypeBoolean, Difficulty: DifficultyMedium,
		Text:          "Наполеон Бонапарт родился на Корсике",
		Options:       boolOptions,
		CorrectAnswer: "Правда",
	},
	{
		ID: 17, Category: "история", Type: TypeMultiple, Difficulty: DifficultyHard,
		Text:          "Кто был последним императором династии Романовых?",
		Options:       []string{"Николай II", "Александр III", "Николай I", "Александр II"},
		CorrectAnswer: "Николай II",
	},
	{
		ID: 18, Category: "история", Type: TypeBoolean, Difficulty: DifficultyHard,
		Text:          "Древнейший из сохранившихся университетов Европы находится в Болонье",
		Options:       boolOptions,
		CorrectAnswer: "Правда",
	},

	// --- музыка ---
	{
		ID: 19, Category: "музыка", Type: TypeBoolean, Difficulty: DifficultyEasy,
		Text:          "Группа «Кино» — это группа Виктора Цоя",
		Options:       boolOptions,
		CorrectAnswer: "Правда",
	},
	{
		ID: 20, Category: "музыка", Type: TypeMultiple, Difficulty: DifficultyEasy,
		Text:          "Сколько струн у классической гитары?",
		Options:       []string{"4", "5", "6", "7"},
		CorrectAnswer: "6",
	},
	{
		ID: 21, Category: "музыка", Type: TypeMultiple, Difficulty: DifficultyMedium,
		Text:          "Кто написал оперу «Евгений Онегин»?",
		Options:       []string{"Чайковский", "Мусоргский", "Римский-Корсаков", "Глинка"},
		CorrectAnswer: "Чайковский",
	},
	{
		ID: 22, Category: "музыка", Type: TypeBoolean, Difficulty: DifficultyMedium,
		Text:          "Альбом «The Dark Side of the Moon» записала группа Led Zeppelin",
		Options:       boolOptions,
		CorrectAnswer: "Ложь",
	},
	{
		ID: 23, Category: "музыка", Type: TypeMultiple, Difficulty: DifficultyHard,
		Text:          "В какой тональности написана «Лунная соната» Бетховена?",
		Options:       []string{"до-диез минор", "ля минор", "ми-бемоль мажор", "ре минор"},
		CorrectAnswer: "до-диез минор",
	},
	{
		ID: 24, Category: "музыка", Type: TypeBoolean, Difficulty: DifficultyHard,
		Text:          "Иоганн Себастьян Бах и Георг Фридрих Гендель родились в один год",
		Options:       boolOptions,
		CorrectAnswer: "Правда",
	},
}

// Categories возвращает список категорий банка в стабильном порядке.
func Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range questionBank {
		c := questionBank[i].Category
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
