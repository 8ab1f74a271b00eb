// Package shell is the operator console: it holds the logged-in session and
// the last dashboard snapshot, and decides which views a role may use.
package shell

import (
	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
)

// AppState is replaced as a whole on every refresh.
type AppState struct {
	User         *domain.Session
	Demographics domain.Demographics
	Locations    []domain.Facility
	Inventory    []domain.CounterRecord
}

// View is a section of the dashboard.
type View string

const (
	ViewConfiguration View = "configuration"
	ViewReport        View = "report"
	ViewEntryForm     View = "entry"
)

// ViewsFor returns the views a role may open. Unknown roles get none.
func ViewsFor(role domain.Role) []View {
	switch role {
	case domain.RoleAdmin:
		return []View{ViewConfiguration, ViewReport}
	case domain.RoleConsultant:
		return []View{ViewReport}
	case domain.RoleUser:
		return []View{ViewEntryForm}
	}
	return nil
}

func allows(role domain.Role, v View) bool {
	for _, got := range ViewsFor(role) {
		if got == v {
			return true
		}
	}
	return false
}

// EntryPreview is the live calculation shown while a facility fills in the form.
type EntryPreview struct {
	Usable   int64
	Physical int64
	Negative bool
}

// Preview computes usable stock (O - Q - R) and physical stock (usable + Q).
func Preview(o, q, r int64) EntryPreview {
	usable := o - q - r
	return EntryPreview{
		Usable:   usable,
		Physical: usable + q,
		Negative: usable < 0,
	}
}
