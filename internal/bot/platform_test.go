package bot

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sbu-community/sentinel/internal/bot/constants"
	"github.com/sbu-community/sentinel/internal/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "dm closed",
			err:  &rest.Error{Code: constants.CannotSendMessagesToUserCode, Response: &http.Response{StatusCode: http.StatusForbidden}},
			want: moderation.ErrUnreachable,
		},
		{
			name: "missing permissions",
			err:  &rest.Error{Code: 50013, Response: &http.Response{StatusCode: http.StatusForbidden}},
			want: moderation.ErrForbidden,
		},
		{
			name: "unknown member",
			err:  &rest.Error{Code: 10007, Response: &http.Response{StatusCode: http.StatusNotFound}},
			want: moderation.ErrMemberNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyError(tt.err)
			require.ErrorIs(t, err, tt.want)

			var restErr *rest.Error
			assert.ErrorAs(t, err, &restErr)
		})
	}
}

func TestClassifyErrorPassthrough(t *testing.T) {
	require.NoError(t, classifyError(nil))

	plain := errors.New("connection reset")
	assert.Same(t, plain, classifyError(plain))

	serverErr := &rest.Error{Response: &http.Response{StatusCode: http.StatusInternalServerError}}
	err := classifyError(serverErr)
	assert.NotErrorIs(t, err, moderation.ErrForbidden)
	assert.NotErrorIs(t, err, moderation.ErrMemberNotFound)
}

func TestToMessageCreate(t *testing.T) {
	msg := moderation.Message{
		Content: "hello",
		Embeds: []moderation.Embed{{
			Title:       "User found",
			Description: strings.Repeat("x", constants.EmbedDescriptionLimit+10),
			Color:       moderation.ColorRed,
			Fields:      []moderation.EmbedField{{Name: "Reason", Value: "xray"}},
			Footer:      "Banned by mod",
		}},
	}

	t.Run("plain", func(t *testing.T) {
		create := toMessageCreate(msg, 0)

		assert.Equal(t, "hello", create.Content)
		assert.Nil(t, create.MessageReference)
		require.NotNil(t, create.AllowedMentions)
		assert.False(t, create.AllowedMentions.RepliedUser)

		require.Len(t, create.Embeds, 1)
		embed := create.Embeds[0]
		assert.Equal(t, "User found", embed.Title)
		assert.Len(t, embed.Description, constants.EmbedDescriptionLimit)
		assert.Equal(t, moderation.ColorRed, embed.Color)
		require.Len(t, embed.Fields, 1)
		assert.Equal(t, "xray", embed.Fields[0].Value)
		require.NotNil(t, embed.Footer)
		assert.Equal(t, "Banned by mod", embed.Footer.Text)
	})

	t.Run("reply", func(t *testing.T) {
		create := toMessageCreate(msg, snowflake.ID(42))

		require.NotNil(t, create.MessageReference)
		require.NotNil(t, create.MessageReference.MessageID)
		assert.Equal(t, snowflake.ID(42), *create.MessageReference.MessageID)
	})
}
