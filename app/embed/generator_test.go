package embed

import (
	"strings"
	"testing"

	"github.com/feedframe/feedframe/app/database"
)

func TestRenderExactMarkup(t *testing.T) {
	markup := Render("acme_official", database.DefaultSettings())

	expected := `<!-- FeedFrame Instagram Embed -->
<div class="feedframe-embed"
     data-username="acme_official"
     data-layout="grid"
     data-posts="6"
     data-columns="3"
     data-spacing="16"
     data-radius="8"
     data-captions="true">
</div>
<script src="https://cdn.feedframe.com/embed.js"></script>`

	if markup != expected {
		t.Errorf("Markup does not match compatibility contract.\nExpected:\n%s\nGot:\n%s", expected, markup)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	settings := database.Settings{
		Layout:       database.LayoutCarousel,
		PostsCount:   9,
		Columns:      2,
		Spacing:      0,
		BorderRadius: 50,
		ShowCaptions: false,
	}

	first := Render("bloomstudio", settings)
	second := Render("bloomstudio", settings)

	if first != second {
		t.Error("Render should produce byte-identical output for identical arguments")
	}
}

func TestRenderBooleansAndNumbers(t *testing.T) {
	settings := database.DefaultSettings()
	settings.ShowCaptions = false
	settings.Spacing = 0

	markup := Render("user", settings)

	if !strings.Contains(markup, `data-captions="false"`) {
		t.Error("ShowCaptions false should render as the literal string \"false\"")
	}
	if !strings.Contains(markup, `data-spacing="0"`) {
		t.Error("Zero spacing should render as decimal \"0\"")
	}
}

func TestRenderKeepsGridFieldsUnderOtherLayouts(t *testing.T) {
	settings := database.DefaultSettings()
	settings.Layout = database.LayoutList

	markup := Render("user", settings)

	// List layout ignores columns but the attribute is still emitted verbatim
	if !strings.Contains(markup, `data-layout="list"`) {
		t.Error("Markup should contain the list layout")
	}
	if !strings.Contains(markup, `data-columns="3"`) {
		t.Error("Markup should keep the stored columns value under non-grid layouts")
	}
}
