package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/kazusane/murasame/pkg/embedfix"
)

// FixCommand rewrites a social-media link to an embed-friendly mirror and,
// when possible, surfaces the direct media URL as well.
func FixCommand(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) *Response {
	link := optionString(data, "link")
	if link == "" {
		return text("❌ Please provide a link.")
	}

	fixed, changed := embedfix.Rewrite(link)
	if !changed {
		return text("❌ That link doesn't need fixing (or isn't from a supported site).")
	}

	content := fixed
	if fixer != nil {
		if media, err := fixer.DirectMediaURL(fixed); err == nil {
			content = fmt.Sprintf("%s\nDirect media: %s", fixed, media)
		}
	}
	return text(content)
}
