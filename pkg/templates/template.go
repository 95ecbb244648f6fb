package templates

import "regexp"

// Channel names understood by Set.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelInApp = "in_app"
	ChannelPush  = "push"
)

const (
	DefaultSubject = "Notification"
	DefaultMessage = "You have a new notification."
)

// Template is the content for one channel. An empty Subject means the
// channel has no title.
type Template struct {
	Subject string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Body    string `json:"body" yaml:"body"`
}

// Render fills the subject and body with payload values.
// The title is empty when the template has no subject.
func (t Template) Render(p Payload) (title, message string) {
	if t.Subject != "" {
		title = Render(t.Subject, p)
	}
	return title, Render(t.Body, p)
}

// Set maps a channel name to its template.
type Set map[string]Template

// For returns the template for channel, or the in_app template when the set
// has none for it.
func (s Set) For(channel string) Template {
	if t, ok := s[channel]; ok {
		return t
	}
	return s[ChannelInApp]
}

// Validate checks that the set can serve every channel.
func (s Set) Validate() error {
	if _, ok := s[ChannelInApp]; !ok {
		return ErrMissingInApp
	}
	return nil
}

func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// DefaultSet returns the generic content used for events without templates.
// Each call returns a new map.
func DefaultSet() Set {
	return Set{
		ChannelEmail: {Subject: DefaultSubject, Body: "<p>" + DefaultMessage + "</p>"},
		ChannelSMS:   {Body: DefaultMessage},
		ChannelInApp: {Body: DefaultMessage},
		ChannelPush:  {Subject: DefaultSubject, Body: DefaultMessage},
	}
}

var placeholderRe = regexp.MustCompile(`\{\{.*?\}\}`)

// Render replaces each "{{key}}" in body with the string form of p[key] in a
// single left-to-right pass. Placeholders without a value are removed.
// Substituted text is never scanned again, so a value containing "{{x}}"
// is emitted as is.
func Render(body string, p Payload) string {
	return placeholderRe.ReplaceAllStringFunc(body, func(m string) string {
		if v, ok := p[m[2:len(m)-2]]; ok {
			return v.String()
		}
		return ""
	})
}
