package api

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Post priority levels.
const (
	PriorityStandard  = ""
	PriorityImportant = "important"
	PriorityUrgent    = "urgent"
)

// PostPriority is the "priority" entry of post metadata.
type PostPriority struct {
	Priority                string `json:"priority"`
	RequestedAck            *bool  `json:"requested_ack,omitempty"`
	PersistentNotifications *bool  `json:"persistent_notifications,omitempty"`
}

// Metadata returns the metadata object that attaches this priority to a new
// post.
func (p PostPriority) Metadata() map[string]any {
	priority := map[string]any{"priority": p.Priority}
	if p.RequestedAck != nil {
		priority["requested_ack"] = *p.RequestedAck
	}
	if p.PersistentNotifications != nil {
		priority["persistent_notifications"] = *p.PersistentNotifications
	}
	return map[string]any{"priority": priority}
}

// MessageAttachment is one entry of the "attachments" post prop.
type MessageAttachment struct {
	Fallback   string            `json:"fallback,omitempty"`
	Color      string            `json:"color,omitempty"`
	Pretext    string            `json:"pretext,omitempty"`
	AuthorName string            `json:"author_name,omitempty"`
	AuthorLink string            `json:"author_link,omitempty"`
	Title      string            `json:"title,omitempty"`
	TitleLink  string            `json:"title_link,omitempty"`
	Text       string            `json:"text,omitempty"`
	ImageURL   string            `json:"image_url,omitempty"`
	ThumbURL   string            `json:"thumb_url,omitempty"`
	Footer     string            `json:"footer,omitempty"`
	Fields     []AttachmentField `json:"fields,omitempty"`
}

// AttachmentField is a short title/value pair inside an attachment.
type AttachmentField struct {
	Title string `json:"title"`
	Value any    `json:"value"`
	Short bool   `json:"short"`
}

// decodeLoose decodes generic JSON values into a typed struct using its
// json tags. Unknown keys are ignored.
func decodeLoose(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// DecodeProps decodes the post's props bag into out, a pointer to a struct
// with json tags.
func (p *Post) DecodeProps(out any) error {
	if p == nil || p.Props == nil {
		return nil
	}
	if err := decodeLoose(p.Props, out); err != nil {
		return fmt.Errorf("decode post props: %w", err)
	}
	return nil
}

// Priority returns the post's priority metadata, or nil when none is set.
func (p *Post) Priority() (*PostPriority, error) {
	if p == nil || p.Metadata == nil {
		return nil, nil
	}
	raw, ok := p.Metadata["priority"]
	if !ok || raw == nil {
		return nil, nil
	}
	var priority PostPriority
	if err := decodeLoose(raw, &priority); err != nil {
		return nil, fmt.Errorf("decode post priority: %w", err)
	}
	return &priority, nil
}

// Attachments returns the message attachments carried in the post's props.
func (p *Post) Attachments() ([]MessageAttachment, error) {
	var props struct {
		Attachments []MessageAttachment `json:"attachments"`
	}
	if err := p.DecodeProps(&props); err != nil {
		return nil, err
	}
	return props.Attachments, nil
}
