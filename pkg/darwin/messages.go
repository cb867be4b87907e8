package darwin

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// cleanMessage strips the HTML markup NRCC messages are delivered with and
// collapses runs of whitespace.
func cleanMessage(raw string) string {
	text := raw
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err == nil {
		text = doc.Text()
	}
	return strings.Join(strings.Fields(text), " ")
}

func cleanMessages(list *MessageList) []string {
	if list == nil {
		return nil
	}

	var out []string
	for _, m := range list.Message {
		if text := cleanMessage(m.Value); text != "" {
			out = append(out, text)
		}
	}
	return out
}
