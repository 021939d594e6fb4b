package bot

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sbu-community/sentinel/internal/bot/constants"
	"github.com/sbu-community/sentinel/internal/bot/utils"
	"github.com/sbu-community/sentinel/internal/moderation"
)

// messageResponder answers in the channel of the message that triggered an event.
type messageResponder struct {
	rest      rest.Rest
	channelID snowflake.ID
	messageID snowflake.ID
}

// Respond sends msg to the originating channel, replying to the original message if requested.
func (r *messageResponder) Respond(ctx context.Context, msg moderation.Message) error {
	var referenceID snowflake.ID
	if msg.Reply {
		referenceID = r.messageID
	}

	_, err := r.rest.CreateMessage(r.channelID, toMessageCreate(msg, referenceID), rest.WithCtx(ctx))

	return classifyError(err)
}

// toMessageCreate converts a platform-neutral message to a Discord message.
// A non-zero referenceID turns it into a reply without pinging the author.
func toMessageCreate(msg moderation.Message, referenceID snowflake.ID) discord.MessageCreate {
	builder := discord.NewMessageCreateBuilder().
		SetContent(utils.TruncateString(msg.Content, constants.MessageContentLimit)).
		SetAllowedMentions(&discord.AllowedMentions{RepliedUser: false})

	for _, embed := range msg.Embeds {
		builder.AddEmbeds(toEmbed(embed))
	}

	if referenceID != 0 {
		builder.SetMessageReferenceByID(referenceID)
	}

	return builder.Build()
}

func toEmbed(embed moderation.Embed) discord.Embed {
	builder := discord.NewEmbedBuilder().
		SetTitle(utils.TruncateString(embed.Title, constants.EmbedTitleLimit)).
		SetDescription(utils.TruncateString(embed.Description, constants.EmbedDescriptionLimit))

	if embed.Color != 0 {
		builder.SetColor(embed.Color)
	}

	for _, field := range embed.Fields {
		builder.AddField(
			utils.TruncateString(field.Name, constants.EmbedFieldNameLimit),
			utils.TruncateString(field.Value, constants.EmbedFieldValueLimit),
			field.Inline,
		)
	}

	if embed.Footer != "" {
		builder.SetFooterText(utils.TruncateString(embed.Footer, constants.EmbedFooterLimit))
	}

	return builder.Build()
}
