package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := a.sessions.Session()
	if s == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", s.User.Email)
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to WellNoosh CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("wn %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: onboarding, slides, profile, whoami, clear-data, logout, exit")
			} else {
				fmt.Println("Available commands: signup, login, google, exit")
			}

		case "signup":
			_ = a.SignUp(ctx)
		case "login":
			_ = a.SignIn(ctx)
		case "google":
			_ = a.SignInWithGoogle(ctx)
		case "onboarding":
			_ = a.Onboarding(ctx)
		case "slides":
			_ = a.FeatureSlides(ctx)
		case "profile":
			_ = a.ShowProfile(ctx)
		case "whoami":
			a.WhoAmI()
		case "clear-data":
			_ = a.ClearData(ctx)
		case "logout":
			_ = a.SignOut(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
