package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	jwtmw "company_research/internal/platform/jwt"
)

var tokenArgs struct {
	operator string
	ttl      time.Duration
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the operator API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		gen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), tokenArgs.ttl)
		token, err := gen.GenerateToken(tokenArgs.operator)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenArgs.operator, "operator", "", "operator name stored in the token subject")
	tokenCmd.Flags().DurationVar(&tokenArgs.ttl, "ttl", jwtmw.DefaultExpiration, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("operator")
}
