package moderation

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testJuniorRole    snowflake.ID = 200
	testModeratorRole snowflake.ID = 100
)

var testResponses = []string{"clown-1", "clown-2", "clown-3"}

func newTestWarnListener(platform *fakePlatform) *WarnListener {
	listener := NewWarnListener(
		platform,
		NewAuditor(platform, testAuditChannel, zap.NewNop()),
		NewCooldownGate(DefaultCooldown),
		WarnListenerConfig{
			Roles:     RoleSet{Moderator: testModeratorRole, JuniorModerator: testJuniorRole},
			Responses: testResponses,
		},
		zap.NewNop(),
	)
	listener.now = func() time.Time { return testNow }
	listener.pick = func(int) int { return 1 }

	return listener
}

func warnEvent(content string, roles ...snowflake.ID) (WarnEvent, *fakeResponder) {
	responder := &fakeResponder{}

	return WarnEvent{
		GuildID:     testGuildID,
		AuthorID:    testActorID,
		AuthorRoles: roles,
		Content:     content,
		Responder:   responder,
	}, responder
}

func TestParseWarn(t *testing.T) {
	tests := []struct {
		content string
		ok      bool
		target  snowflake.ID
		reason  string
	}{
		{content: "!warn text", ok: false},
		{content: "!warn <@123> spammed a lot", ok: true, target: 123, reason: "spammed a lot"},
		{content: "!warn <@!123> caps", ok: true, target: 123, reason: "caps"},
		{content: "!warn 456 x", ok: true, target: 456, reason: "x"},
		{content: "!warn <@abc> spam", ok: false},
		{content: "!warn <@> spam", ok: false},
		{content: "!warning <@123> spam", ok: false},
		{content: "hello !warn <@123> spam", ok: false},
		{content: "!warn  <@123> spam", ok: false},
		{content: "!warn <@123> ", ok: true, target: 123, reason: ""},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			cmd, ok := ParseWarn(tt.content, DefaultWarnTrigger)
			require.Equal(t, tt.ok, ok)

			if ok {
				assert.Equal(t, tt.target, cmd.TargetID)
				assert.Equal(t, tt.reason, cmd.Reason)
			}
		})
	}
}

func TestWarnListener(t *testing.T) {
	t.Run("two tokens are ignored", func(t *testing.T) {
		platform := newFakePlatform()
		event, responder := warnEvent("!warn text", testJuniorRole)

		outcome, err := newTestWarnListener(platform).Handle(t.Context(), event)
		require.NoError(t, err)
		assert.Equal(t, WarnIgnored, outcome)
		assert.Empty(t, platform.channel)
		assert.Empty(t, responder.all())
	})

	t.Run("authorized author warns unprivileged target", func(t *testing.T) {
		platform := newFakePlatform()
		platform.members[123] = &Member{User: User{ID: 123, Username: "spammer"}}
		event, responder := warnEvent("!warn <@123> spammed a lot", testJuniorRole)

		outcome, err := newTestWarnListener(platform).Handle(t.Context(), event)
		require.NoError(t, err)
		assert.Equal(t, WarnLogged, outcome)

		audit := platform.channelMessages(testAuditChannel)
		require.Len(t, audit, 1)
		assert.Contains(t, audit[0].Content, "Action: Warn")
		assert.Contains(t, audit[0].Content, "Reason: spammed a lot")

		messages := responder.all()
		require.Len(t, messages, 1)
		assert.Equal(t, "Log created", messages[0].Content)
	})

	t.Run("privileged target is skipped", func(t *testing.T) {
		platform := newFakePlatform()
		platform.members[123] = &Member{User: User{ID: 123}, Roles: []snowflake.ID{testJuniorRole}}
		event, _ := warnEvent("!warn <@123> spammed a lot", testJuniorRole)

		outcome, err := newTestWarnListener(platform).Handle(t.Context(), event)
		require.NoError(t, err)
		assert.Equal(t, WarnIgnored, outcome)
		assert.Empty(t, platform.channel)
	})

	t.Run("missing target is skipped", func(t *testing.T) {
		platform := newFakePlatform()
		event, _ := warnEvent("!warn <@999> gone", testJuniorRole)

		outcome, err := newTestWarnListener(platform).Handle(t.Context(), event)
		require.NoError(t, err)
		assert.Equal(t, WarnIgnored, outcome)
		assert.Empty(t, platform.channel)
	})

	t.Run("unauthorized author gets a passive reply", func(t *testing.T) {
		platform := newFakePlatform()
		platform.members[123] = &Member{User: User{ID: 123}}
		event, responder := warnEvent("!warn <@123> spammed a lot")

		outcome, err := newTestWarnListener(platform).Handle(t.Context(), event)
		require.NoError(t, err)
		assert.Equal(t, WarnJoked, outcome)
		assert.Empty(t, platform.channel)

		messages := responder.all()
		require.Len(t, messages, 1)
		assert.Equal(t, "clown-2", messages[0].Content)
		assert.True(t, messages[0].Reply)
	})

	t.Run("passive replies respect the cooldown", func(t *testing.T) {
		platform := newFakePlatform()
		listener := newTestWarnListener(platform)

		clock := testNow
		listener.now = func() time.Time { return clock }

		first, _ := warnEvent("!warn <@123> a b")
		outcome, err := listener.Handle(t.Context(), first)
		require.NoError(t, err)
		assert.Equal(t, WarnJoked, outcome)

		clock = testNow.Add(30 * time.Second)
		second, responder := warnEvent("!warn <@123> a b")
		outcome, err = listener.Handle(t.Context(), second)
		require.NoError(t, err)
		assert.Equal(t, WarnSuppressed, outcome)
		assert.Empty(t, responder.all())

		clock = testNow.Add(61 * time.Second)
		third, _ := warnEvent("!warn <@123> a b")
		outcome, err = listener.Handle(t.Context(), third)
		require.NoError(t, err)
		assert.Equal(t, WarnJoked, outcome)
	})

	t.Run("unauthorized malformed warns get a passive reply", func(t *testing.T) {
		for _, content := range []string{"!warn", "!warn text", "!warn notanid x", "!warning everyone"} {
			platform := newFakePlatform()
			event, responder := warnEvent(content)

			outcome, err := newTestWarnListener(platform).Handle(t.Context(), event)
			require.NoError(t, err, content)
			assert.Equal(t, WarnJoked, outcome, content)
			assert.Empty(t, platform.channel, content)
			require.Len(t, responder.all(), 1, content)
			assert.Equal(t, "clown-2", responder.all()[0].Content, content)
		}
	})

	t.Run("authorized malformed warns are ignored", func(t *testing.T) {
		for _, content := range []string{"!warn", "!warn notanid x", "!warning everyone"} {
			platform := newFakePlatform()
			event, responder := warnEvent(content, testJuniorRole)

			outcome, err := newTestWarnListener(platform).Handle(t.Context(), event)
			require.NoError(t, err, content)
			assert.Equal(t, WarnIgnored, outcome, content)
			assert.Empty(t, responder.all(), content)
		}
	})

	t.Run("messages without the trigger are ignored", func(t *testing.T) {
		for _, content := range []string{"hello", "hello !warn <@123> spam", " !warn <@123> spam"} {
			event, responder := warnEvent(content)

			outcome, err := newTestWarnListener(newFakePlatform()).Handle(t.Context(), event)
			require.NoError(t, err, content)
			assert.Equal(t, WarnIgnored, outcome, content)
			assert.Empty(t, responder.all(), content)
		}
	})

	t.Run("moderator without junior role is unauthorized", func(t *testing.T) {
		event, _ := warnEvent("!warn <@123> spam spam", testModeratorRole)

		outcome, err := newTestWarnListener(newFakePlatform()).Handle(t.Context(), event)
		require.NoError(t, err)
		assert.Equal(t, WarnJoked, outcome)
	})
}
