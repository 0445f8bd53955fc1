package prompts

import (
	_ "embed"
	"fmt"
)

//go:embed summary.txt
var Summary string

// SummaryUser builds the user message for a one-line headline summary
func SummaryUser(title string) string {
	return fmt.Sprintf("新闻标题：%s", title)
}
