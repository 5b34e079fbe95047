// Command token mints a signed player token with the server's JWT settings.
// Tokens normally come from the login service; this is for local play and
// administration.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"risiko-server/internal/auth"
	"risiko-server/internal/shared/config"
)

func main() {
	username := flag.String("username", "", "player name carried by the token (defaults to ADMIN_USERNAME for admin tokens)")
	role := flag.String("role", auth.RolePlayer, "token role (player or admin)")
	flag.Parse()

	if *role != auth.RolePlayer && *role != auth.RoleAdmin {
		log.Fatalf("unknown role %q", *role)
	}

	if err := config.Init(); err != nil {
		log.Fatal("Failed to initialize configuration:", err)
	}

	// admin tokens default to the configured administrator
	if *username == "" && *role == auth.RoleAdmin {
		*username = config.GlobalConfig.Admin.Username
	}
	if *username == "" {
		log.Fatal("-username is required")
	}

	tokens, err := auth.NewTokens(config.GlobalConfig.Auth)
	if err != nil {
		log.Fatal("Failed to initialize tokens:", err)
	}

	token, err := tokens.Generate(*username, *role)
	if err != nil {
		log.Fatal("Failed to generate token:", err)
	}

	fmt.Fprintln(os.Stdout, token)
}
