package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type tokenFlags struct {
	config string
	email  string
	name   string
}

// issueToken ensures the user exists and signs an auth token for it
// issueToken 确保用户存在并为其签发认证 Token
func issueToken(ctx context.Context, f *tokenFlags) (string, error) {
	if f.email == "" {
		return "", errors.New("--email is required")
	}
	path, err := resolveConfig(f.config)
	if err != nil {
		return "", err
	}
	a, _, _, err := bootApp(path, "")
	if err != nil {
		return "", err
	}
	defer func() {
		if err := a.Shutdown(ctx); err != nil {
			bootstrapLogger.Warn("app shutdown", zap.Error(err))
		}
	}()

	user, err := a.UserService.Ensure(ctx, f.email, f.name)
	if err != nil {
		return "", errors.Wrap(err, "ensure user")
	}
	return a.TokenManager.Generate(user.ID, user.Email, "")
}

func init() {
	f := new(tokenFlags)

	tokenCmd := &cobra.Command{
		Use:   "token --email <email> [--name <name>] [-c config_file]",
		Short: "Issue an auth token for a user. // 为用户签发认证 Token。",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := issueToken(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	rootCmd.AddCommand(tokenCmd)
	fs := tokenCmd.Flags()
	fs.StringVarP(&f.config, "config", "c", "", "config file")
	fs.StringVar(&f.email, "email", "", "user email")
	fs.StringVar(&f.name, "name", "", "display name, used when the user is created")
}
