package main

import (
	"fmt"
	"time"

	"chartcraft/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	tokenUser  string
	tokenRoles []string
	tokenTTL   time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign an API token for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		utils.SetSecret(v.GetString("jwt_secret"))
		token, err := utils.GenerateToken(tokenUser, tokenRoles, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id placed in the token")
	tokenCmd.Flags().StringSliceVar(&tokenRoles, "role", nil, "role (repeatable)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}
