package model

import (
	"bytes"
	"strings"

	"github.com/bytedance/sonic"
)

// LogEntry is one decoded line of a Claude Code JSONL log.
type LogEntry struct {
	Timestamp *string     `json:"timestamp"`
	SessionId *string     `json:"sessionId"`
	Cwd       *string     `json:"cwd"`
	Type      *string     `json:"type"`
	Uuid      *string     `json:"uuid"`
	Message   *LogMessage `json:"message"`
}

type LogMessage struct {
	Role    *string     `json:"role"`
	Content Content     `json:"content"`
	Usage   *TokenUsage `json:"usage"`
}

type TokenUsage struct {
	InputTokens  *int `json:"input_tokens"`
	OutputTokens *int `json:"output_tokens"`
}

// ContentKind tags the shape the "content" field arrived in.
type ContentKind int

const (
	ContentAbsent ContentKind = iota
	ContentText
	ContentBlockList
	ContentOther
)

// Content holds a message payload, which Claude Code writes either as a plain
// string, as a list of typed blocks, or occasionally as some other JSON value.
type Content struct {
	Kind   ContentKind
	Text   string
	Blocks []ContentBlock
	// Raw is the compact JSON rendering of an Other value.
	Raw string
}

// ContentBlock is one element of a block list. Elements that are not objects
// decode to a zero block and never contribute text.
type ContentBlock struct {
	Type    string
	Text    string
	HasText bool
}

func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Content{Kind: ContentAbsent}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Content{Kind: ContentText, Text: s}
		return nil
	case '[':
		var blocks []ContentBlock
		if err := sonic.Unmarshal(data, &blocks); err != nil {
			return err
		}
		*c = Content{Kind: ContentBlockList, Blocks: blocks}
		return nil
	}

	var v any
	if err := sonic.Unmarshal(data, &v); err != nil {
		return err
	}
	raw, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		return err
	}
	*c = Content{Kind: ContentOther, Raw: string(raw)}
	return nil
}

func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		*b = ContentBlock{}
		return nil
	}
	var obj map[string]any
	if err := sonic.Unmarshal(data, &obj); err != nil {
		return err
	}
	blockType, _ := obj["type"].(string)
	text, ok := obj["text"].(string)
	*b = ContentBlock{Type: blockType, Text: text, HasText: ok}
	return nil
}

// PlainText flattens the content into the text used for previews.
func (c Content) PlainText() string {
	switch c.Kind {
	case ContentText:
		return c.Text
	case ContentBlockList:
		parts := make([]string, 0, len(c.Blocks))
		for _, block := range c.Blocks {
			if block.Type == BlockText && block.HasText {
				parts = append(parts, block.Text)
			}
		}
		return strings.Join(parts, " ")
	case ContentOther:
		return c.Raw
	default:
		return ""
	}
}
