// seeduser creates a login account directly in the data directory. Used for
// first-time setup and for recovering a locked-out installation.
//
//	seeduser -data ./data -username admin -password secret -role ADMIN
package main

import (
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	dataDir := flag.String("data", "./data", "data directory")
	username := flag.String("username", "admin", "login username")
	password := flag.String("password", "", "login password (required)")
	role := flag.String("role", "ADMIN", "ADMIN or CASHIER")
	flag.Parse()

	if *password == "" {
		log.Fatal().Msg("-password is required")
	}
	if *role != string(model.RoleAdmin) && *role != string(model.RoleCashier) {
		log.Fatal().Str("role", *role).Msg("role must be ADMIN or CASHIER")
	}

	st, err := store.Open(*dataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open data store")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	err = st.Update(func(s *store.State) error {
		for i := range s.Users {
			if s.Users[i].Username == *username {
				// existing account: reset password and reactivate
				s.Users[i].PasswordHash = string(hash)
				s.Users[i].Role = model.Role(*role)
				s.Users[i].Active = true
				return nil
			}
		}
		s.Users = append(s.Users, model.UserAccount{
			ID:           uuid.NewString(),
			Username:     *username,
			PasswordHash: string(hash),
			Role:         model.Role(*role),
			Active:       true,
			CreatedAt:    time.Now(),
		})
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to write account")
	}
	log.Info().Str("username", *username).Str("role", *role).Msg("account ready")
}
