package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAssistant.Valid())
	assert.False(t, Role("system").Valid())
	assert.False(t, Role("").Valid())

	assert.Equal(t, "You", RoleUser.Label())
	assert.Equal(t, "AI", RoleAssistant.Label())
}

func TestMessagesClone(t *testing.T) {
	var empty Messages
	c := empty.Clone()
	assert.NotNil(t, c)
	assert.Len(t, c, 0)

	src := Messages{{Role: RoleUser, Content: "hi"}}
	c = src.Clone()
	c[0].Content = "changed"
	assert.Equal(t, "hi", src[0].Content)
}

func TestMessagesRecently(t *testing.T) {
	var ms Messages
	for i := 0; i < 12; i++ {
		ms = append(ms, Message{Role: RoleUser, Content: string(rune('a' + i))})
	}
	got := ms.Recently(10)
	require.Len(t, got, 10)
	assert.Equal(t, "c", got[0].Content)
	assert.Equal(t, "l", got[9].Content)

	assert.Len(t, ms.Recently(20), 12)
}

func TestRequestHistoryEncoding(t *testing.T) {
	b, err := json.Marshal(Request{Message: "hello", History: Messages{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"hello","history":[]}`, string(b))

	var res Response
	require.NoError(t, json.Unmarshal([]byte(`{}`), &res))
	assert.Empty(t, res.Reply)
	assert.Nil(t, res.History)
}

func TestPresetWelcome(t *testing.T) {
	var p Preset
	assert.Equal(t, "dft", p.WelcomeText("dft"))
	p.Welcome = &Message{Role: RoleAssistant, Content: "Hey there"}
	assert.Equal(t, "Hey there", p.WelcomeText("dft"))
}
