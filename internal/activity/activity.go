// Package activity defines the closed set of activity types the tracker
// can record, and how they partition into work / personal / system.
//
// Two layers:
//   - Activity: what the classifier is allowed to produce (16 values)
//   - Extended: what the store is allowed to contain (Activity + idle)
//
// Idle is never a classifier output; it is written only by the tracking
// gate when the system has been inactive past the idle threshold.
package activity

import "fmt"

// Activity is a classifier-assignable activity type.
type Activity string

const (
	// Personal activities.
	PersonalBrowsing        Activity = "personal_browsing"
	SocialMedia             Activity = "social_media"
	YouTubeEntertainment    Activity = "youtube_entertainment"
	PersonalEmail           Activity = "personal_email"
	PersonalAIUse           Activity = "personal_ai_use"
	PersonalFinances        Activity = "personal_finances"
	ProfessionalDevelopment Activity = "professional_development"
	OnlineShopping          Activity = "online_shopping"
	PersonalCalendar        Activity = "personal_calendar"
	Entertainment           Activity = "entertainment"

	// Work-related activities.
	Slack        Activity = "slack"
	WorkEmail    Activity = "work_email"
	ZoomMeeting  Activity = "zoom_meeting"
	WorkCoding   Activity = "work_coding"
	WorkBrowsing Activity = "work_browsing"
	WorkCalendar Activity = "work_calendar"
)

// Extended is an activity type as stored: every Activity value plus Idle.
type Extended string

// Idle marks a sample where the system was inactive. No reasoning is
// ever attached to an idle entry.
const Idle Extended = "idle"

// All lists every Activity in declaration order. The order doubles as the
// deterministic tie-break key when sorting equal-percentage stats.
var All = []Activity{
	PersonalBrowsing,
	SocialMedia,
	YouTubeEntertainment,
	PersonalEmail,
	PersonalAIUse,
	PersonalFinances,
	ProfessionalDevelopment,
	OnlineShopping,
	PersonalCalendar,
	Entertainment,
	Slack,
	WorkEmail,
	ZoomMeeting,
	WorkCoding,
	WorkBrowsing,
	WorkCalendar,
}

// AllExtended is All plus Idle, same ordering rules.
var AllExtended = func() []Extended {
	out := make([]Extended, 0, len(All)+1)
	for _, a := range All {
		out = append(out, Extended(a))
	}
	return append(out, Idle)
}()

var workActivities = map[Extended]struct{}{
	Extended(Slack):        {},
	Extended(WorkEmail):    {},
	Extended(ZoomMeeting):  {},
	Extended(WorkCoding):   {},
	Extended(WorkBrowsing): {},
	Extended(WorkCalendar): {},
}

var personalActivities = map[Extended]struct{}{
	Extended(PersonalBrowsing):        {},
	Extended(SocialMedia):             {},
	Extended(YouTubeEntertainment):    {},
	Extended(PersonalEmail):           {},
	Extended(PersonalAIUse):           {},
	Extended(PersonalFinances):        {},
	Extended(ProfessionalDevelopment): {},
	Extended(OnlineShopping):          {},
	Extended(PersonalCalendar):        {},
	Extended(Entertainment):           {},
}

// declOrder maps each extended activity to its declaration index.
var declOrder = func() map[Extended]int {
	m := make(map[Extended]int, len(AllExtended))
	for i, a := range AllExtended {
		m[a] = i
	}
	return m
}()

// Category is the work/personal/system partition of activities.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategorySystem   Category = "system"
)

// Categorize returns the category for an extended activity. The partition
// is total: anything that is neither work nor personal (i.e. idle) is
// system.
func Categorize(a Extended) Category {
	if _, ok := workActivities[a]; ok {
		return CategoryWork
	}
	if _, ok := personalActivities[a]; ok {
		return CategoryPersonal
	}
	return CategorySystem
}

// DeclIndex returns the declaration-order index of a, used as a stable
// secondary sort key. Unknown values sort last.
func DeclIndex(a Extended) int {
	if i, ok := declOrder[a]; ok {
		return i
	}
	return len(AllExtended)
}

// Parse validates a classifier output string against the closed Activity set.
func Parse(s string) (Activity, error) {
	a := Activity(s)
	if _, ok := declOrder[Extended(a)]; !ok || Extended(a) == Idle {
		return "", fmt.Errorf("unknown activity %q", s)
	}
	return a, nil
}

// ParseExtended validates a stored activity string (Activity values + idle).
func ParseExtended(s string) (Extended, error) {
	a := Extended(s)
	if _, ok := declOrder[a]; !ok {
		return "", fmt.Errorf("unknown activity %q", s)
	}
	return a, nil
}

// Extended converts a classifier activity into its storage representation.
func (a Activity) Extended() Extended {
	return Extended(a)
}

// Label returns the human-readable form ("work_coding" -> "work coding").
func (a Extended) Label() string {
	out := make([]byte, len(a))
	for i := 0; i < len(a); i++ {
		c := a[i]
		if c == '_' {
			c = ' '
		}
		out[i] = c
	}
	return string(out)
}
