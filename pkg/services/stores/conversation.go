package stores

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/liut/tutorbot/data/presets"
	"github.com/liut/tutorbot/pkg/models/chat"
	"github.com/liut/tutorbot/pkg/settings"
)

const (
	dftHistoryMaxLength = 100
	dftHistoryLifetime  = time.Hour * 24 * 90
)

// Conversation is the saved history of one identity
type Conversation interface {
	GetID() string
	AddHistory(ctx context.Context, item *chat.HistoryItem) error
	ListHistory(ctx context.Context) (chat.HistoryItems, error)
	ClearHistory(ctx context.Context) error
}

// NewConversation returns the history of uid on the shared redis
func NewConversation(uid string) Conversation {
	return NewConversationWith(SgtRC(), uid)
}

// NewConversationWith returns the history of uid on rc
func NewConversationWith(rc RedisClient, uid string) Conversation {
	return &conversation{
		id:       uid,
		rc:       rc,
		maxLen:   historyMaxLength(),
		lifetime: historyLifetime(),
	}
}

type conversation struct {
	id       string
	rc       RedisClient
	maxLen   int64
	lifetime time.Duration
}

func (s *conversation) GetID() string {
	return s.id
}

func (s *conversation) AddHistory(ctx context.Context, item *chat.HistoryItem) error {
	key := s.getKey()
	if item.Time == 0 {
		item.Time = time.Now().Unix()
	}
	if len(item.UID) == 0 {
		item.UID = s.id
	}
	b, err := item.MarshalBinary()
	if err != nil {
		return err
	}
	res := s.rc.RPush(ctx, key, b)
	err = res.Err()
	if err == nil {
		logger().Debugw("add history ok", "key", key)
		count, _ := res.Result()
		if err = s.rc.Expire(ctx, key, s.lifetime).Err(); err != nil {
			return err
		}
		if count > s.maxLen {
			logger().Infow("history length overflow", "key", key, "count", count)
			err = s.rc.LTrim(ctx, key, count-s.maxLen, -1).Err()
		}
	}
	if err != nil {
		logger().Infow("add history fail", "key", key, "err", err)
	}
	return err
}

func (s *conversation) ListHistory(ctx context.Context) (data chat.HistoryItems, err error) {
	key := s.getKey()
	ss := s.rc.LRange(ctx, key, 0, -1)
	err = ss.ScanSlice(&data)
	return
}

func (s *conversation) ClearHistory(ctx context.Context) error {
	return s.rc.Del(ctx, s.getKey()).Err()
}

func (s *conversation) getKey() string {
	return "convs-" + s.GetID()
}

func historyMaxLength() int64 {
	if n := cast.ToInt64(settings.Current.HistoryMax); n > 0 {
		return n
	}
	return dftHistoryMaxLength
}

func historyLifetime() time.Duration {
	if settings.Current.HistoryDays > 0 {
		return time.Hour * 24 * time.Duration(settings.Current.HistoryDays)
	}
	return dftHistoryLifetime
}

// LoadPreset reads the preset file named in settings, or the embedded
// default when none is set
func LoadPreset() (doc chat.Preset, err error) {
	return LoadPresetFile(settings.Current.PresetFile)
}

// LoadPresetFile ...
func LoadPresetFile(name string) (doc chat.Preset, err error) {
	var yf io.ReadCloser
	if len(name) > 0 {
		yf, err = os.Open(name)
	} else {
		yf, err = presets.FS().Open(presets.DefaultName)
	}
	if err != nil {
		logger().Infow("load preset fail", "file", name, "err", err)
		return
	}
	defer yf.Close()
	err = yaml.NewDecoder(yf).Decode(&doc)
	if err != nil {
		logger().Infow("decode preset fail", "file", name, "err", err)
	}

	return
}
