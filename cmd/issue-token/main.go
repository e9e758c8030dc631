// issue-token mints a credential token, or with --resource a view link,
// signed with AUTH_SECRET. It is meant for support and local testing.
package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"warehouse-service/internal/auth"
	"warehouse-service/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const viewReportPath = "/view/reports/"

func main() {
	_ = godotenv.Load(".env")

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var (
		subject    string
		name       string
		role       string
		externalID string
		resource   string
		baseURL    string
		ttl        time.Duration
	)

	flagSet := pflag.NewFlagSet("issue-token", pflag.ContinueOnError)
	flagSet.SetOutput(os.Stderr)
	flagSet.StringVar(&subject, "subject", "", "subject id (sub) of the credential")
	flagSet.StringVar(&name, "name", "", "display name carried in the credential")
	flagSet.StringVar(&role, "role", string(auth.RoleViewer), "role: admin, staff or viewer")
	flagSet.StringVar(&externalID, "external-id", "", "optional mini-app user id")
	flagSet.StringVar(&resource, "resource", "", "mint a view link for this report id instead of a credential")
	flagSet.StringVar(&baseURL, "base-url", "", "public base URL for view links (default PUBLIC_BASE_URL)")
	flagSet.DurationVar(&ttl, "ttl", 0, "lifetime (default CREDENTIAL_TTL or VIEW_LINK_TTL)")

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	authCfg, err := config.LoadAuth()
	if err != nil {
		return err
	}

	signer, err := auth.NewSigner([]byte(authCfg.Secret))
	if err != nil {
		return err
	}

	if resource != "" {
		if ttl == 0 {
			ttl = authCfg.ViewLinkTTL
		}
		if baseURL == "" {
			baseURL = config.PublicBaseURL()
		}

		link, err := auth.NewViewLinks(signer, nil).Issue(resource, ttl)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, link.URL(baseURL+viewReportPath+url.PathEscape(resource)))
		return err
	}

	if subject == "" {
		return errors.New("--subject is required")
	}
	if !auth.Role(role).Valid() {
		return fmt.Errorf("unknown role %q", role)
	}
	if ttl == 0 {
		ttl = authCfg.CredentialTTL
	}

	token, err := auth.NewCredentials(signer, nil).Issue(auth.Identity{
		SubjectID:   subject,
		DisplayName: name,
		Role:        auth.Role(role),
		ExternalID:  externalID,
	}, ttl)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, token)
	return err
}
