package moderation

import (
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testGuildID      snowflake.ID = 1
	testAuditChannel snowflake.ID = 500
	testActorID      snowflake.ID = 10
	testTargetID     snowflake.ID = 20
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestExecutor(platform *fakePlatform) *Executor {
	executor := NewExecutor(
		platform,
		NewAuditor(platform, testAuditChannel, zap.NewNop()),
		ExecutorConfig{ServerName: "SBU", AppealLink: "https://discord.gg/appeal"},
		zap.NewNop(),
	)
	executor.now = func() time.Time { return testNow }

	return executor
}

func newRequest(responder Responder, reason string) ActionRequest {
	return ActionRequest{
		GuildID:   testGuildID,
		ActorID:   testActorID,
		Target:    User{ID: testTargetID, Username: "griefer"},
		Reason:    reason,
		Responder: responder,
	}
}

func requireKind(t *testing.T, err error, want Kind) {
	t.Helper()

	kind, ok := KindOf(err)
	require.True(t, ok, "expected a moderation error, got %v", err)
	assert.Equal(t, want, kind)
}

func TestExecutorBan(t *testing.T) {
	t.Run("notifies then bans then audits", func(t *testing.T) {
		platform := newFakePlatform()
		responder := &fakeResponder{}

		err := newTestExecutor(platform).Ban(t.Context(), newRequest(responder, "xray"))
		require.NoError(t, err)

		require.Len(t, platform.dms, 2)
		assert.Equal(t, "You have been banned from SBU for xray", platform.dms[0].Content)
		assert.Equal(t, "Appeal at https://discord.gg/appeal", platform.dms[1].Content)
		assert.Equal(t, []snowflake.ID{testTargetID}, platform.bans)

		audit := platform.channelMessages(testAuditChannel)
		require.Len(t, audit, 1)
		assert.Equal(t,
			"Moderator: <@10> \nUser: <@20> | griefer \nAction: Ban \nReason: xray",
			audit[0].Content)

		messages := responder.all()
		require.Len(t, messages, 1)
		require.Len(t, messages[0].Embeds, 1)
		assert.Contains(t, messages[0].Embeds[0].Description, "Action: Ban")
	})

	t.Run("missing reason renders as None", func(t *testing.T) {
		platform := newFakePlatform()

		require.NoError(t, newTestExecutor(platform).Ban(t.Context(), newRequest(&fakeResponder{}, "")))

		assert.Equal(t, "You have been banned from SBU for None", platform.dms[0].Content)
		assert.Contains(t, platform.channelMessages(testAuditChannel)[0].Content, "Reason: None")
	})

	t.Run("unreachable target is still banned and audited once", func(t *testing.T) {
		platform := newFakePlatform()
		platform.dmErr = ErrUnreachable
		responder := &fakeResponder{}

		err := newTestExecutor(platform).Ban(t.Context(), newRequest(responder, "alt"))
		require.NoError(t, err)

		assert.Equal(t, []snowflake.ID{testTargetID}, platform.bans)
		assert.Len(t, platform.channelMessages(testAuditChannel), 1)

		messages := responder.all()
		require.Len(t, messages, 2)
		assert.Equal(t, "User cannot be dmed", messages[0].Content)
		assert.NotEmpty(t, messages[1].Embeds)
	})

	t.Run("forbidden ban aborts without audit", func(t *testing.T) {
		platform := newFakePlatform()
		platform.banErr = ErrForbidden
		responder := &fakeResponder{}

		err := newTestExecutor(platform).Ban(t.Context(), newRequest(responder, "alt"))
		requireKind(t, err, KindEnforcementForbidden)
		require.ErrorIs(t, err, ErrForbidden)

		assert.Empty(t, platform.channel)
		assert.Empty(t, responder.all())
	})

	t.Run("any enforcement failure is treated as forbidden", func(t *testing.T) {
		platform := newFakePlatform()
		platform.dmErr = ErrUnreachable
		platform.banErr = errors.New("gateway timeout")

		err := newTestExecutor(platform).Ban(t.Context(), newRequest(&fakeResponder{}, ""))
		requireKind(t, err, KindEnforcementForbidden)
		assert.Empty(t, platform.channel)
	})

	t.Run("audit channel failure does not undo the ban", func(t *testing.T) {
		platform := newFakePlatform()
		platform.channelErr = errors.New("missing access")
		responder := &fakeResponder{}

		require.NoError(t, newTestExecutor(platform).Ban(t.Context(), newRequest(responder, "")))
		assert.Len(t, platform.bans, 1)
		assert.Len(t, responder.all(), 1)
	})
}

func TestExecutorUnban(t *testing.T) {
	t.Run("success audits", func(t *testing.T) {
		platform := newFakePlatform()
		responder := &fakeResponder{}

		require.NoError(t, newTestExecutor(platform).Unban(t.Context(), newRequest(responder, "appealed")))

		assert.Equal(t, []snowflake.ID{testTargetID}, platform.unbans)
		assert.Empty(t, platform.dms)

		audit := platform.channelMessages(testAuditChannel)
		require.Len(t, audit, 1)
		assert.Contains(t, audit[0].Content, "Action: Unban")
		assert.Len(t, responder.all(), 1)
	})

	t.Run("failure aborts without audit", func(t *testing.T) {
		platform := newFakePlatform()
		platform.unbanErr = errors.New("unknown ban")

		err := newTestExecutor(platform).Unban(t.Context(), newRequest(&fakeResponder{}, ""))
		requireKind(t, err, KindEnforcementForbidden)
		assert.Equal(t, "Bot does not have permission to unban this member.", err.(*Error).Message)
		assert.Empty(t, platform.channel)
	})
}

func TestExecutorMuteDurationBounds(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{input: "1s", ok: true},
		{input: "10m", ok: true},
		{input: "28d", ok: true},
		{input: "4w", ok: true},
		{input: "0", ok: false},
		{input: "-5m", ok: false},
		{input: "28d1s", ok: false},
		{input: "29d", ok: false},
		{input: "1y", ok: false},
		{input: "forever", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			platform := newFakePlatform()
			responder := &fakeResponder{}

			err := newTestExecutor(platform).Mute(t.Context(), newRequest(responder, "spam"), tt.input)

			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, 1, platform.platformCalls)
				assert.Len(t, platform.channelMessages(testAuditChannel), 1)

				return
			}

			requireKind(t, err, KindUserInput)
			assert.Zero(t, platform.platformCalls)
			assert.Empty(t, platform.channel)
			assert.Empty(t, responder.all())
		})
	}
}

func TestExecutorMute(t *testing.T) {
	t.Run("times out until now plus duration", func(t *testing.T) {
		platform := newFakePlatform()
		responder := &fakeResponder{}

		require.NoError(t, newTestExecutor(platform).Mute(t.Context(), newRequest(responder, "spam"), "2h"))

		assert.Equal(t, testNow.Add(2*time.Hour), platform.timeouts[testTargetID])

		messages := responder.all()
		require.Len(t, messages, 1)
		assert.Contains(t, messages[0].Content, "<@20> has been muted for")
		assert.Contains(t, messages[0].Content, "| Reason spam")

		audit := platform.channelMessages(testAuditChannel)
		require.Len(t, audit, 1)
		assert.Contains(t, audit[0].Content, "Action: Mute")
		assert.Contains(t, audit[0].Content, "Duration: ")
	})

	t.Run("reapplying replaces expiry", func(t *testing.T) {
		platform := newFakePlatform()
		executor := newTestExecutor(platform)

		require.NoError(t, executor.Mute(t.Context(), newRequest(&fakeResponder{}, ""), "1d"))
		require.NoError(t, executor.Mute(t.Context(), newRequest(&fakeResponder{}, ""), "10m"))

		assert.Equal(t, testNow.Add(10*time.Minute), platform.timeouts[testTargetID])
	})

	t.Run("malformed duration is marked", func(t *testing.T) {
		err := newTestExecutor(newFakePlatform()).Mute(t.Context(), newRequest(&fakeResponder{}, ""), "soon")
		require.ErrorIs(t, err, ErrInvalidTimespan)
	})

	t.Run("over maximum message", func(t *testing.T) {
		err := newTestExecutor(newFakePlatform()).Mute(t.Context(), newRequest(&fakeResponder{}, ""), "30d")

		var modErr *Error
		require.ErrorAs(t, err, &modErr)
		assert.Equal(t, "Max mute duration is 28 days", modErr.Message)
	})

	t.Run("forbidden timeout skips audit", func(t *testing.T) {
		platform := newFakePlatform()
		platform.timeoutErr = ErrForbidden
		responder := &fakeResponder{}

		err := newTestExecutor(platform).Mute(t.Context(), newRequest(responder, ""), "5m")
		requireKind(t, err, KindEnforcementForbidden)
		assert.Empty(t, platform.channel)
		assert.Empty(t, responder.all())
	})
}

func TestExecutorUnmute(t *testing.T) {
	t.Run("removes timeout and audits", func(t *testing.T) {
		platform := newFakePlatform()
		platform.timeouts[testTargetID] = testNow.Add(time.Hour)
		responder := &fakeResponder{}

		require.NoError(t, newTestExecutor(platform).Unmute(t.Context(), newRequest(responder, "")))

		assert.NotContains(t, platform.timeouts, testTargetID)
		assert.Equal(t, "<@20> has been unmuted.", responder.all()[0].Content)

		audit := platform.channelMessages(testAuditChannel)
		require.Len(t, audit, 1)
		assert.Contains(t, audit[0].Content, "Action: Unmute")
	})

	t.Run("unmuting an unmuted member succeeds", func(t *testing.T) {
		platform := newFakePlatform()

		require.NoError(t, newTestExecutor(platform).Unmute(t.Context(), newRequest(&fakeResponder{}, "")))
		assert.Equal(t, []snowflake.ID{testTargetID}, platform.removedTimeout)
	})
}
