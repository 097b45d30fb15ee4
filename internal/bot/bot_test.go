package bot

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fludilka.ru/credits-bot/internal/features/roulette"
)

// Справка не должна обещать ставку, которую парсер рулетки не примет.
func TestHelpAdvertisesOnlyParseableBetKinds(t *testing.T) {
	m := regexp.MustCompile(`рулетка \(([^)]+)\)`).FindStringSubmatch(helpText())
	require.NotNil(t, m, "в справке нет строки рулетки со списком ставок")

	for _, token := range strings.Split(m[1], "/") {
		_, err := roulette.ParseBetKind(token)
		assert.NoError(t, err, "ставка из справки: %q", token)
	}
}

func TestParseCommand(t *testing.T) {
	p := NewCommandParser()

	cmd, args, ok := p.ParseCommand("!кредиты")
	assert.True(t, ok)
	assert.Equal(t, "кредиты", cmd)
	assert.Empty(t, args)

	cmd, args, ok = p.ParseCommand("!отсыпать @vasya 100")
	assert.True(t, ok)
	assert.Equal(t, "отсыпать", cmd)
	assert.Equal(t, []string{"@vasya", "100"}, args)

	// Префиксы ., / и верхний регистр команды
	cmd, _, ok = p.ParseCommand(".РУЛЕТКА 50 красное")
	assert.True(t, ok)
	assert.Equal(t, "рулетка", cmd)

	_, _, ok = p.ParseCommand("/help")
	assert.True(t, ok)

	// Пробелы вокруг не мешают
	cmd, _, ok = p.ParseCommand("  !дейли  ")
	assert.True(t, ok)
	assert.Equal(t, "дейли", cmd)
}

func TestParseCommandRejectsNonCommands(t *testing.T) {
	p := NewCommandParser()

	_, _, ok := p.ParseCommand("просто сообщение")
	assert.False(t, ok)

	_, _, ok = p.ParseCommand("")
	assert.False(t, ok)

	// Голый префикс без команды
	_, _, ok = p.ParseCommand("!")
	assert.False(t, ok)

	_, _, ok = p.ParseCommand("!   ")
	assert.False(t, ok)
}
