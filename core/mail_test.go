package core

import (
	"strings"
	"testing"
)

func init() {
	RegisterEmailTemplate("test_greeting", "Hello {{.Name}}", "<p>Hello {{.Name}}</p>")
}

func TestEmailMessage_Render(t *testing.T) {
	data := struct{ Name string }{Name: "Ann & Bo"}

	tests := []struct {
		name     string
		msg      EmailMessage
		wantErr  bool
		wantText string
		wantHTML string
	}{
		{name: "plain body", msg: EmailMessage{BodyStr: "hi"}, wantText: "hi"},
		{
			name:     "template",
			msg:      EmailMessage{TemplateName: "test_greeting", TemplateData: data},
			wantText: "Hello Ann & Bo",
			wantHTML: "<p>Hello Ann &amp; Bo</p>",
		},
		{
			name:     "body overrides text template",
			msg:      EmailMessage{BodyStr: "hi", TemplateName: "test_greeting", TemplateData: data},
			wantText: "hi",
			wantHTML: "<p>Hello Ann &amp; Bo</p>",
		},
		{name: "unknown template", msg: EmailMessage{TemplateName: "nope"}, wantErr: true},
		{name: "missing key", msg: EmailMessage{TemplateName: "test_greeting", TemplateData: map[string]string{}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.msg
			err := msg.Render()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Render() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if msg.TextContent != tt.wantText {
				t.Errorf("TextContent = %q, want %q", msg.TextContent, tt.wantText)
			}
			if strings.TrimSpace(msg.HTMLContent) != tt.wantHTML {
				t.Errorf("HTMLContent = %q, want %q", msg.HTMLContent, tt.wantHTML)
			}
			if !msg.HasContent() {
				t.Error("HasContent() = false")
			}
		})
	}
}
