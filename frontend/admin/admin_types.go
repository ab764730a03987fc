package admin

import (
	"net/url"
	"strings"

	"userhub/infrastructure/apiclient"
)

const (
	loadFailedMessage      = "Failed to load admin data"
	userDeletedMessage     = "User \"%s\" deleted successfully"
	roleDeletedMessage     = "Role \"%s\" deleted successfully"
	roleCreatedMessage     = "Role created successfully"
	roleUpdatedMessage     = "Role updated successfully"
	userDeleteFallback     = "Failed to delete user"
	roleDeleteFallback     = "Failed to delete role"
	roleCreateFallback     = "Failed to create role"
	roleUpdateFallback     = "Failed to update role"
	notFoundMessage        = "The selected item no longer exists"
	forbiddenActionMessage = "You are not allowed to perform this action"
)

// RoleForm is the create/edit role form as posted.
type RoleForm struct {
	Name        string `form:"name" validate:"notblank" msg:"notblank=Role name is required"`
	Description string `form:"description"`
}

func roleFormFromValues(v url.Values) RoleForm {
	return RoleForm{
		Name:        strings.TrimSpace(v.Get("name")),
		Description: strings.TrimSpace(v.Get("description")),
	}
}

func (f RoleForm) values() url.Values {
	return url.Values{"name": {f.Name}, "description": {f.Description}}
}

func (f RoleForm) request() apiclient.RoleInput {
	return apiclient.RoleInput{Name: f.Name, Description: f.Description}
}
