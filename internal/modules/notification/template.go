package notification

import "strings"

// Template is a parameterized message pattern bound to a notification type.
// Patterns contain {variable} placeholders that Render substitutes.
type Template struct {
	Type              string
	TitlePattern      string
	BodyPattern       string
	RequiredVariables []string
	Priority          Priority
	DefaultChannels   ChannelList
}

// Render substitutes every {variable} occurrence in the title and body
// patterns. A required variable missing from vars stays as the literal
// placeholder text; missing data degrades the message but never blocks it.
func (t Template) Render(vars map[string]string) (title, body string) {
	title = t.TitlePattern
	body = t.BodyPattern
	for _, name := range t.RequiredVariables {
		value, ok := vars[name]
		if !ok || value == "" {
			continue
		}
		placeholder := "{" + name + "}"
		title = strings.ReplaceAll(title, placeholder, value)
		body = strings.ReplaceAll(body, placeholder, value)
	}
	return title, body
}

// Registry is an immutable notification type -> template mapping, built once
// at process start and injected into the Dispatcher.
type Registry struct {
	templates map[string]Template
}

// NewRegistry builds the registry with the built-in product templates.
func NewRegistry() *Registry {
	return NewRegistryWith()
}

// NewRegistryWith builds the registry with the built-in templates plus extras.
// An extra template with a duplicate type replaces the built-in one.
func NewRegistryWith(extra ...Template) *Registry {
	templates := make(map[string]Template, len(builtinTemplates)+len(extra))
	for _, t := range builtinTemplates {
		templates[t.Type] = t
	}
	for _, t := range extra {
		templates[t.Type] = t
	}
	return &Registry{templates: templates}
}

// Resolve looks up the template for a notification type. Unknown types are a
// hard error; the dispatcher aborts the send rather than degrading silently.
func (r *Registry) Resolve(notifType string) (Template, error) {
	t, ok := r.templates[notifType]
	if !ok {
		return Template{}, ErrUnknownTemplateType
	}
	return t, nil
}

// Types returns every registered notification type.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.templates))
	for t := range r.templates {
		out = append(out, t)
	}
	return out
}

var builtinTemplates = []Template{
	{
		Type:              "friend_request",
		TitlePattern:      "👋 New friend request",
		BodyPattern:       "{username} wants to connect with you",
		RequiredVariables: []string{"username"},
		Priority:          PriorityNormal,
		DefaultChannels:   ChannelList{ChannelPush, ChannelInApp},
	},
	{
		Type:              "friend_accepted",
		TitlePattern:      "🎉 Friend request accepted",
		BodyPattern:       "{username} accepted your friend request",
		RequiredVariables: []string{"username"},
		Priority:          PriorityNormal,
		DefaultChannels:   ChannelList{ChannelPush, ChannelInApp},
	},
	{
		Type:              "post_like",
		TitlePattern:      "❤️ Someone liked your post",
		BodyPattern:       "{username} liked your post about {restaurant}",
		RequiredVariables: []string{"username", "restaurant"},
		Priority:          PriorityLow,
		DefaultChannels:   ChannelList{ChannelPush, ChannelInApp},
	},
	{
		Type:              "post_comment",
		TitlePattern:      "💬 New comment on your post",
		BodyPattern:       "{username} commented on your post about {restaurant}",
		RequiredVariables: []string{"username", "restaurant"},
		Priority:          PriorityNormal,
		DefaultChannels:   ChannelList{ChannelPush, ChannelInApp},
	},
	{
		Type:              "reservation_reminder",
		TitlePattern:      "🍽️ Reservation reminder",
		BodyPattern:       "Your reservation at {restaurant} is in {time}",
		RequiredVariables: []string{"restaurant", "time"},
		Priority:          PriorityHigh,
		DefaultChannels:   ChannelList{ChannelPush, ChannelEmail, ChannelInApp},
	},
	{
		Type:              "reservation_confirmed",
		TitlePattern:      "✅ Reservation confirmed",
		BodyPattern:       "Your reservation at {restaurant} for {date} is confirmed",
		RequiredVariables: []string{"restaurant", "date"},
		Priority:          PriorityHigh,
		DefaultChannels:   ChannelList{ChannelPush, ChannelEmail, ChannelInApp},
	},
	{
		Type:              "ai_suggestion",
		TitlePattern:      "🤖 AI recommendation",
		BodyPattern:       "Based on your tastes, you might love {restaurant}",
		RequiredVariables: []string{"restaurant"},
		Priority:          PriorityNormal,
		DefaultChannels:   ChannelList{ChannelPush, ChannelInApp},
	},
	{
		Type:              "insider_event",
		TitlePattern:      "⭐ Exclusive event available",
		BodyPattern:       "New insider event at {restaurant} - {event_name}",
		RequiredVariables: []string{"restaurant", "event_name"},
		Priority:          PriorityHigh,
		DefaultChannels:   ChannelList{ChannelPush, ChannelEmail, ChannelInApp},
	},
	{
		Type:              "achievement",
		TitlePattern:      "🏆 Achievement unlocked",
		BodyPattern:       "You earned the \"{achievement}\" badge!",
		RequiredVariables: []string{"achievement"},
		Priority:          PriorityNormal,
		DefaultChannels:   ChannelList{ChannelPush, ChannelInApp},
	},
	{
		Type:              "subscription",
		TitlePattern:      "💎 Subscription update",
		BodyPattern:       "{message}",
		RequiredVariables: []string{"message"},
		Priority:          PriorityHigh,
		DefaultChannels:   ChannelList{ChannelPush, ChannelEmail, ChannelInApp},
	},
}
