package stores

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liut/tutorbot/pkg/models/chat"
)

func newTestRC(t *testing.T) (*miniredis.Miniredis, RedisClient) {
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestConversationHistory(t *testing.T) {
	mr, rc := newTestRC(t)
	ctx := context.Background()
	cs := NewConversationWith(rc, "ann@example.edu")
	assert.Equal(t, "ann@example.edu", cs.GetID())

	data, err := cs.ListHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, data)

	for _, qa := range [][2]string{{"A", "B"}, {"C", "D"}} {
		item := &chat.HistoryItem{Conversation: chat.Conversation{Question: qa[0], Answer: qa[1]}}
		require.NoError(t, cs.AddHistory(ctx, item))
	}
	data, err = cs.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.Equal(t, chat.Conversations{{Question: "A", Answer: "B"}, {Question: "C", Answer: "D"}}, data.Conversations())
	assert.Equal(t, "ann@example.edu", data[0].UID)
	assert.NotZero(t, data[0].Time)
	assert.True(t, mr.TTL("convs-ann@example.edu") > 0)

	require.NoError(t, cs.ClearHistory(ctx))
	data, err = cs.ListHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestConversationCapped(t *testing.T) {
	_, rc := newTestRC(t)
	ctx := context.Background()
	cs := &conversation{id: "g1", rc: rc, maxLen: 3, lifetime: dftHistoryLifetime}
	for _, q := range []string{"1", "2", "3", "4", "5"} {
		require.NoError(t, cs.AddHistory(ctx, &chat.HistoryItem{Conversation: chat.Conversation{Question: q}}))
	}
	data, err := cs.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, data, 3)
	assert.Equal(t, "3", data[0].Question)
	assert.Equal(t, "5", data[2].Question)
}

func TestUsers(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	_, err = HashPassword("short")
	assert.Error(t, err)

	users, err := ParseUsers([]string{"Ann@Example.edu:" + hash, " "})
	require.NoError(t, err)
	assert.Equal(t, 1, users.Len())
	assert.True(t, users.Verify("ann@example.edu", "s3cret!"))
	assert.False(t, users.Verify("ann@example.edu", "wrong"))
	assert.False(t, users.Verify("bob@example.edu", "s3cret!"))

	_, err = ParseUsers([]string{"nohash"})
	assert.Error(t, err)
}

type fakeCompleter struct {
	req openai.ChatCompletionRequest
	res openai.ChatCompletionResponse
	err error
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	return f.res, f.err
}

func TestAnswerer(t *testing.T) {
	fc := &fakeCompleter{res: openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{
		{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "A for loop repeats..."}},
	}}}
	ans := NewAnswerer(fc, chat.Preset{Model: "tiny", SystemPrompt: "be brief"})
	answer, err := ans.Answer(context.Background(), "What is a for loop?")
	require.NoError(t, err)
	assert.Equal(t, "A for loop repeats...", answer)
	assert.Equal(t, "tiny", fc.req.Model)
	require.Len(t, fc.req.Messages, 2)
	assert.Equal(t, "be brief", fc.req.Messages[0].Content)
	assert.Equal(t, "What is a for loop?", fc.req.Messages[1].Content)

	_, err = NewAnswerer(&fakeCompleter{}, chat.Preset{}).Answer(context.Background(), "q")
	assert.ErrorIs(t, err, ErrNoChoice)

	_, err = NewAnswerer(&fakeCompleter{err: errors.New("quota")}, chat.Preset{}).Answer(context.Background(), "q")
	assert.Error(t, err)
}

func TestLoadPresetFile(t *testing.T) {
	doc, err := LoadPresetFile("")
	require.NoError(t, err)
	assert.Contains(t, doc.SystemPrompt, "INFO 6200")
	assert.Equal(t, chat.DefaultTexts().Welcome, doc.Texts.Welcome)

	name := filepath.Join(t.TempDir(), "preset.yaml")
	require.NoError(t, os.WriteFile(name, []byte(`systemPrompt: be brief
model: tiny
texts:
  welcome: Hi, ask me about Python.
`), 0o600))
	doc, err = LoadPresetFile(name)
	require.NoError(t, err)
	assert.Equal(t, "be brief", doc.SystemPrompt)
	assert.Equal(t, "tiny", doc.Model)
	assert.Equal(t, "Hi, ask me about Python.", doc.Texts.Welcome)

	_, err = LoadPresetFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
