package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acmello/campusctl/internal/session"
)

var loginOpts struct {
	email    string
	password string
	role     string
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the platform and persist the session token",
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		password, err := resolvePassword(loginOpts.password)
		if err != nil {
			return err
		}
		user, err := a.session.Login(ctx, loginOpts.email, password, loginOpts.role)
		if err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (%s)\n", user.FullName(), user.Role)
		fmt.Printf("Landing: %s\n", user.Role.LandingPath())
		return nil
	}),
}

var registerOpts struct {
	session.Registration
	password string
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		password, err := resolvePassword(registerOpts.password)
		if err != nil {
			return err
		}
		reg := registerOpts.Registration
		reg.Password = password
		user, err := a.session.Register(ctx, reg)
		if err != nil {
			return err
		}
		fmt.Printf("Registered %s (%s)\n", user.FullName(), user.Role)
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the persisted session token",
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		a.session.Logout()
		fmt.Println("Logged out")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		user, err := a.requireSession(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>\nRole: %s\n", user.FullName(), user.Email, user.Role)
		return nil
	}),
}

// resolvePassword returns the flag value or reads one line from stdin.
func resolvePassword(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	loginCmd.Flags().StringVar(&loginOpts.email, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginOpts.password, "password", "", "account password (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginOpts.role, "role", "", "expected role: admin, teacher or student")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("role")

	f := registerCmd.Flags()
	f.StringVar(&registerOpts.FirstName, "first-name", "", "first name")
	f.StringVar(&registerOpts.LastName, "last-name", "", "last name")
	f.StringVar(&registerOpts.Email, "email", "", "account email")
	f.StringVar(&registerOpts.password, "password", "", "account password (prompted when omitted)")
	f.StringVar(&registerOpts.Role, "role", "student", "role: teacher or student")
	f.StringVar(&registerOpts.Class, "class", "", "student class")
	f.StringVar(&registerOpts.ContactNumber, "contact", "", "contact number")
	f.StringVar(&registerOpts.ParentName, "parent-name", "", "parent or guardian name")
	f.StringVar(&registerOpts.ParentContact, "parent-contact", "", "parent or guardian contact")
	f.StringVar(&registerOpts.EmployeeID, "employee-id", "", "teacher employee id")
	f.StringVar(&registerOpts.Qualification, "qualification", "", "teacher qualification")
	f.StringVar(&registerOpts.Specialization, "specialization", "", "teacher specialization")
	_ = registerCmd.MarkFlagRequired("first-name")
	_ = registerCmd.MarkFlagRequired("last-name")
	_ = registerCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}
