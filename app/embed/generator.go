// Package embed renders the markup snippet a site owner pastes into their
// page. The output is a compatibility contract consumed by embed.js; it must
// stay byte-for-byte stable for a given username and settings.
package embed

import (
	"bytes"
	"strconv"

	"github.com/feedframe/feedframe/app/database"
)

const scriptURL = "https://cdn.feedframe.com/embed.js"

// Render produces the embed markup for a username and settings. It is a pure
// function: identical arguments yield byte-identical output. All settings are
// emitted verbatim as data-* attributes, including grid-only fields under
// non-grid layouts.
func Render(username string, settings database.Settings) string {
	var buf bytes.Buffer

	buf.WriteString("<!-- FeedFrame Instagram Embed -->\n")
	buf.WriteString(`<div class="feedframe-embed"` + "\n")
	writeAttr(&buf, "data-username", username, false)
	writeAttr(&buf, "data-layout", settings.Layout, false)
	writeAttr(&buf, "data-posts", strconv.Itoa(settings.PostsCount), false)
	writeAttr(&buf, "data-columns", strconv.Itoa(settings.Columns), false)
	writeAttr(&buf, "data-spacing", strconv.Itoa(settings.Spacing), false)
	writeAttr(&buf, "data-radius", strconv.Itoa(settings.BorderRadius), false)
	writeAttr(&buf, "data-captions", strconv.FormatBool(settings.ShowCaptions), true)
	buf.WriteString("</div>\n")
	buf.WriteString(`<script src="` + scriptURL + `"></script>`)

	return buf.String()
}

func writeAttr(buf *bytes.Buffer, name, value string, last bool) {
	buf.WriteString("     ")
	buf.WriteString(name)
	buf.WriteString(`="`)
	buf.WriteString(value)
	buf.WriteString(`"`)
	if last {
		buf.WriteString(">")
	}
	buf.WriteString("\n")
}
