package jobs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/lib/cast"
)

func match(t *testing.T, conf config.ConditionConf, info *cast.MediaInfo) bool {
	c, err := NewCondition(conf)
	require.NoError(t, err)
	ok, err := c.Match(info)
	require.NoError(t, err)
	return ok
}

func TestPatternIdle(t *testing.T) {
	idle := config.ConditionConf{Pattern: config.PatternIdle}
	assert.True(t, match(t, idle, nil))
	assert.True(t, match(t, idle, &cast.MediaInfo{}))
	assert.True(t, match(t, idle, cast.Playing("TV Aparecida", 0)))
	assert.False(t, match(t, idle, cast.Playing("TV Aparecida", 12.5)))
	assert.False(t, match(t, idle, cast.Playing("TV Aparecida", 100)))
}

func TestPatternIdleOrFallback(t *testing.T) {
	cond := config.ConditionConf{Pattern: config.PatternIdleOrFallback}
	assert.True(t, match(t, cond, nil))
	assert.True(t, match(t, cond, cast.Playing("TV Aparecida", 100)))
	assert.False(t, match(t, cond, cast.Playing("Sessão da Tarde", 100)))
}

func TestNegate(t *testing.T) {
	cond := config.ConditionConf{Pattern: "TV Aparecida", Negate: true}
	assert.False(t, match(t, cond, cast.Playing("TV Aparecida", 1)))
	assert.True(t, match(t, cond, cast.Playing("Outro", 1)))
}

func TestWhen(t *testing.T) {
	cond := config.ConditionConf{When: "player_state != 'PLAYING' || current_time < 5"}
	assert.True(t, match(t, cond, nil))
	assert.True(t, match(t, cond, cast.Playing("x", 1)))
	assert.False(t, match(t, cond, cast.Playing("x", 60)))

	both := config.ConditionConf{Pattern: "TV Aparecida", When: "current_time > 10"}
	assert.True(t, match(t, both, cast.Playing("TV Aparecida", 60)))
	assert.False(t, match(t, both, cast.Playing("TV Aparecida", 1)))
	assert.False(t, match(t, both, cast.Playing("Outro", 60)))
}

func TestEmptyConditionHolds(t *testing.T) {
	assert.True(t, match(t, config.ConditionConf{}, cast.Playing("x", 1)))
}

func TestConditionErrors(t *testing.T) {
	_, err := NewCondition(config.ConditionConf{When: "title =="})
	assert.Error(t, err)

	c, err := NewCondition(config.ConditionConf{When: "current_time + 1"})
	require.NoError(t, err)
	_, err = c.Match(nil)
	assert.Error(t, err)
}

func TestDefaultPatternsSkipPlayingItems(t *testing.T) {
	playing := []*cast.MediaInfo{
		cast.Playing("Novela", 31.5),
		cast.Playing("Jornal", 10),
		cast.Playing("Sessão da Tarde", 4000),
	}
	for _, info := range playing {
		require.True(t, strings.HasSuffix(info.Text(), "\n"))
		assert.False(t, match(t, config.ConditionConf{Pattern: config.PatternIdle}, info), info.Text())
		assert.False(t, match(t, config.ConditionConf{Pattern: config.PatternIdleOrFallback}, info), info.Text())
	}
}

func TestPatternAnchorsPerLine(t *testing.T) {
	cond := config.ConditionConf{Pattern: `^  "title": "TV Aparecida",$`}
	assert.True(t, match(t, cond, cast.Playing("TV Aparecida", 1)))
	assert.False(t, match(t, config.ConditionConf{Pattern: `^\s*$`}, cast.Playing("x", 1)))
	assert.True(t, match(t, config.ConditionConf{Pattern: `^\s*$`}, nil))
}
