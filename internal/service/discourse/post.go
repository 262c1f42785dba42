package discourse

import (
	"fmt"
	"strings"
)

// Post is a Discourse post document assembled from a Slack thread.
type Post struct {
	Title string
	Raw   string
}

const maxTitleLen = 80

// BuildPost turns a thread's message texts, oldest first, into a post
// document. The title derives from the first non-empty message; the body
// quotes each message in order.
func BuildPost(messages []string) Post {
	title := "Archived Slack thread"
	for _, msg := range messages {
		if t := strings.TrimSpace(msg); t != "" {
			title = t
			break
		}
	}
	if r := []rune(title); len(r) > maxTitleLen {
		title = string(r[:maxTitleLen-1]) + "…"
	}

	var b strings.Builder
	b.WriteString("_Archived from a Slack thread._\n")
	for i, msg := range messages {
		msg = strings.TrimSpace(msg)
		if msg == "" {
			continue
		}
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, msg)
	}

	return Post{Title: title, Raw: b.String()}
}
