package admin

import (
	"fmt"
	"net/url"
	"time"

	"userhub/frontend/shared/nav"
	"userhub/frontend/shared/viewmodel"
	"userhub/models"
)

// BannerDismiss is how long admin banners stay on screen.
const BannerDismiss = 2 * time.Second

type Tab string

const (
	TabUsers Tab = "users"
	TabRoles Tab = "roles"
)

func parseTab(s string) Tab {
	if Tab(s) == TabRoles {
		return TabRoles
	}
	return TabUsers
}

// Kind names a destructive action; the values double as the ?confirm= query value.
type Kind string

const (
	KindDeleteUser Kind = "delete-user"
	KindDeleteRole Kind = "delete-role"
)

// Confirmation is a pending destructive action waiting for an explicit confirm.
type Confirmation struct {
	Kind         Kind
	TargetID     int64
	TargetName   string
	Title        string
	Message      string
	ConfirmLabel string
}

// Action is the URL the confirm button posts to.
func (c Confirmation) Action() string {
	if c.Kind == KindDeleteRole {
		return fmt.Sprintf("/admin/roles/%d/delete", c.TargetID)
	}
	return fmt.Sprintf("/admin/users/%d/delete", c.TargetID)
}

type RoleFormMode string

const (
	RoleFormClosed RoleFormMode = ""
	RoleFormCreate RoleFormMode = "create"
	RoleFormEdit   RoleFormMode = "edit"
)

// State is everything the admin console renders.
type State struct {
	Nav    nav.TopNavData
	Tab    Tab
	Users  []models.User
	Roles  []models.Role
	Banner viewmodel.Banner

	Confirm       *Confirmation
	DeletingUsers map[int64]bool
	DeletingRoles map[int64]bool

	RoleMode    RoleFormMode
	EditingRole models.Role
	RoleForm    viewmodel.Form

	CanDeleteUsers bool
	CanManageRoles bool
}

func (s State) FindUser(id int64) (models.User, bool) {
	for _, u := range s.Users {
		if u.UserID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (s State) FindRole(id int64) (models.Role, bool) {
	for _, r := range s.Roles {
		if r.RoleID == id {
			return r, true
		}
	}
	return models.Role{}, false
}

// UserDeleteDisabled is true for Admin-role users and while a delete for u is outstanding.
func (s State) UserDeleteDisabled(u models.User) bool {
	return u.Protected() || s.DeletingUsers[u.UserID]
}

func (s State) RoleDeleteDisabled(r models.Role) bool {
	return s.DeletingRoles[r.RoleID]
}

// ConfirmBusy reports whether the open confirmation's target is already being deleted.
func (s State) ConfirmBusy() bool {
	if s.Confirm == nil {
		return false
	}
	if s.Confirm.Kind == KindDeleteRole {
		return s.DeletingRoles[s.Confirm.TargetID]
	}
	return s.DeletingUsers[s.Confirm.TargetID]
}

type Event interface {
	adminEvent()
}

// DeleteRequested opens a confirmation naming the target. Protected users and system roles are refused.
type DeleteRequested struct {
	Kind Kind
	ID   int64
}

type DeleteStarted struct {
	Kind Kind
	ID   int64
}

type TabSelected struct {
	Tab Tab
}

// RoleCreateOpened opens the empty create-role form.
type RoleCreateOpened struct{}

// RoleEditOpened opens the edit form for a role. System roles are refused.
type RoleEditOpened struct {
	ID int64
}

// RoleFormEvent forwards a form event to the role form.
type RoleFormEvent struct {
	Event viewmodel.Event
}

// BannerShown replaces the page banner.
type BannerShown struct {
	Banner viewmodel.Banner
}

func (DeleteRequested) adminEvent()  {}
func (DeleteStarted) adminEvent()    {}
func (TabSelected) adminEvent()      {}
func (RoleCreateOpened) adminEvent() {}
func (RoleEditOpened) adminEvent()   {}
func (RoleFormEvent) adminEvent()    {}
func (BannerShown) adminEvent()      {}

const (
	protectedUserMessage = "Users with the Admin role cannot be deleted"
	systemRoleMessage    = "System roles cannot be modified"
)

// Update returns the state that follows s after ev. s is not modified.
func Update(s State, ev Event) State {
	next := s
	next.DeletingUsers = copyIDs(s.DeletingUsers)
	next.DeletingRoles = copyIDs(s.DeletingRoles)
	if s.Confirm != nil {
		c := *s.Confirm
		next.Confirm = &c
	}

	switch e := ev.(type) {
	case DeleteRequested:
		next.Confirm = nil
		switch e.Kind {
		case KindDeleteUser:
			u, ok := s.FindUser(e.ID)
			if !ok {
				return next
			}
			if u.Protected() {
				next.Banner = viewmodel.Banner{Kind: viewmodel.BannerError, Text: protectedUserMessage}
				return next
			}
			name := u.FullName()
			next.Tab = TabUsers
			next.Banner = viewmodel.Banner{}
			next.Confirm = &Confirmation{
				Kind:         KindDeleteUser,
				TargetID:     u.UserID,
				TargetName:   name,
				Title:        "Delete User",
				Message:      fmt.Sprintf("Are you sure you want to delete \"%s\"? This action cannot be undone and will permanently remove all user data.", name),
				ConfirmLabel: "Delete User",
			}
		case KindDeleteRole:
			r, ok := s.FindRole(e.ID)
			if !ok {
				return next
			}
			if r.System() {
				next.Banner = viewmodel.Banner{Kind: viewmodel.BannerError, Text: systemRoleMessage}
				return next
			}
			next.Tab = TabRoles
			next.Banner = viewmodel.Banner{}
			next.Confirm = &Confirmation{
				Kind:         KindDeleteRole,
				TargetID:     r.RoleID,
				TargetName:   r.Name,
				Title:        "Delete Role",
				Message:      fmt.Sprintf("Are you sure you want to delete the role \"%s\"? This action cannot be undone and may affect users who have this role assigned.", r.Name),
				ConfirmLabel: "Delete Role",
			}
		}
	case DeleteStarted:
		ids(&next, e.Kind)[e.ID] = true
	case TabSelected:
		next.Tab = e.Tab
	case RoleCreateOpened:
		next.Tab = TabRoles
		next.RoleMode = RoleFormCreate
		next.EditingRole = models.Role{}
		next.RoleForm = viewmodel.Update(viewmodel.New(nil), viewmodel.EditStarted{})
	case RoleEditOpened:
		r, ok := s.FindRole(e.ID)
		if !ok {
			return next
		}
		if r.System() {
			next.Banner = viewmodel.Banner{Kind: viewmodel.BannerError, Text: systemRoleMessage}
			return next
		}
		values := url.Values{"name": {r.Name}, "description": {r.Description}}
		next.Tab = TabRoles
		next.RoleMode = RoleFormEdit
		next.EditingRole = r
		next.RoleForm = viewmodel.Update(viewmodel.New(values), viewmodel.EditStarted{Values: values})
	case RoleFormEvent:
		next.RoleForm = viewmodel.Update(s.RoleForm, e.Event)
	case BannerShown:
		next.Banner = e.Banner
	}
	return next
}

func ids(s *State, kind Kind) map[int64]bool {
	if kind == KindDeleteRole {
		return s.DeletingRoles
	}
	return s.DeletingUsers
}

func copyIDs(in map[int64]bool) map[int64]bool {
	out := make(map[int64]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
