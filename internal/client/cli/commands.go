package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/userapp/internal/client/api"
	"github.com/dmitrijs2005/userapp/internal/common"
)

func (a *App) ListUsers(ctx context.Context) error {
	users, err := a.api.ListUsers(ctx)
	if err != nil {
		return a.report(err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tNAME\tADMIN\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s %s\t%t\t%s\n",
			u.ID, u.UserName, u.Email, u.FirstName, u.LastName, u.IsAdmin, u.CreationTimestamp.Format(time.RFC3339))
	}
	return tw.Flush()
}

func (a *App) ShowUser(ctx context.Context, userName string) error {
	u, err := a.api.GetUser(ctx, userName)
	if err != nil {
		return a.report(err)
	}
	a.printUser(u)
	return nil
}

func (a *App) AddUser(ctx context.Context) error {
	in, err := a.readUserInput()
	if err != nil {
		return a.report(err)
	}

	u, err := a.api.AddUser(ctx, in)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Created user %q with id %d\n", u.UserName, u.ID)
	return nil
}

func (a *App) UpdateUser(ctx context.Context, userName string) error {
	in, err := a.readUserInput()
	if err != nil {
		return a.report(err)
	}

	u, err := a.api.UpdateUser(ctx, userName, in)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Updated user %d\n", u.ID)
	a.printUser(u)
	return nil
}

func (a *App) DeleteUser(ctx context.Context, userName string) error {
	ok, err := GetYesNo(a.reader, fmt.Sprintf("Delete user %q?", userName), a.out)
	if err != nil {
		return a.report(err)
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	u, err := a.api.DeleteUser(ctx, userName)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Deleted user %q (id %d)\n", u.UserName, u.ID)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	userName, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return a.report(err)
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return a.report(err)
	}

	s, err := a.api.Login(ctx, userName, password)
	if err != nil {
		return a.report(err)
	}

	a.userName = s.UserName
	fmt.Fprintf(a.out, "Login successful, apikey: %s\n", s.APIKey)
	return nil
}

func (a *App) ListSessions(ctx context.Context) error {
	sessions, err := a.api.ListSessions(ctx)
	if err != nil {
		return a.report(err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tAPIKEY\tCREATED")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.UserName, s.APIKey, s.CreationTimestamp.Format(time.RFC3339))
	}
	return tw.Flush()
}

func (a *App) readUserInput() (api.UserInput, error) {
	var in api.UserInput
	var err error

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Username", &in.UserName},
		{"Email", &in.Email},
		{"First name", &in.FirstName},
		{"Last name", &in.LastName},
	}
	for _, f := range fields {
		if *f.dst, err = GetSimpleText(a.reader, f.prompt, a.out); err != nil {
			return in, err
		}
	}

	if in.Password, err = GetPassword(a.reader, a.out); err != nil {
		return in, err
	}
	if in.IsAdmin, err = GetYesNo(a.reader, "Admin", a.out); err != nil {
		return in, err
	}
	return in, nil
}

func (a *App) printUser(u *api.User) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id\t%d\n", u.ID)
	fmt.Fprintf(tw, "username\t%s\n", u.UserName)
	fmt.Fprintf(tw, "email\t%s\n", u.Email)
	fmt.Fprintf(tw, "name\t%s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(tw, "admin\t%t\n", u.IsAdmin)
	fmt.Fprintf(tw, "created\t%s\n", u.CreationTimestamp.Format(time.RFC3339))
	_ = tw.Flush()
}

// report prints a short message for err and returns it.
func (a *App) report(err error) error {
	var msg string
	switch {
	case errors.Is(err, common.ErrorNotFound):
		msg = "No such user"
	case errors.Is(err, common.ErrorConflict):
		msg = "Username already exists"
	case errors.Is(err, common.ErrorUnauthorized):
		msg = "Wrong password"
	case errors.Is(err, api.ErrUnavailable):
		a.setMode(ModeOffline)
		msg = "Server unavailable"
	default:
		msg = "Error: " + err.Error()
	}
	fmt.Fprintln(a.out, msg)
	return err
}
