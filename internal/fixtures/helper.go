package fixtures

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"atkctl/internal/config"
	"atkctl/internal/drush"
	"atkctl/internal/executor"
	"atkctl/pkg/logging"
)

// Drush is the part of the execution dispatcher the helpers need.
type Drush interface {
	Execute(ctx context.Context, spec drush.Spec) (*executor.Result, error)
	Output(ctx context.Context, spec drush.Spec) (string, error)
}

// Helper provisions and cleans up site state through Drush.
type Helper struct {
	drush Drush
	cfg   config.AtkConfig
}

// NewHelper creates a Helper.
func NewHelper(cfg config.AtkConfig, d Drush) *Helper {
	return &Helper{drush: d, cfg: cfg}
}

var createdUID = regexp.MustCompile(`uid (\d+)`)

// CreateUserWithUserObject runs user:create for account and then assigns
// roles followed by account.UserRoles. It returns the new uid when Drush
// reports one, otherwise 0.
func (h *Helper) CreateUserWithUserObject(ctx context.Context, account Account, roles, args, options []string) (int, error) {
	spec := drush.New("user:create").
		WithArgs(drush.Quote(account.UserName)).
		WithArgs(args...).
		WithOptions(options...).
		WithOptions(
			"--mail="+drush.Quote(account.UserEmail),
			"--password="+drush.Quote(account.UserPassword),
		)

	res, err := h.drush.Execute(ctx, spec)
	if err != nil {
		return 0, fmt.Errorf("creating user %s: %w", account.UserName, err)
	}
	if !res.Success() {
		return 0, fmt.Errorf("creating user %s: %w", account.UserName, &executor.ExitError{Result: res})
	}

	uid := 0
	if m := createdUID.FindStringSubmatch(res.Stdout + res.Stderr); m != nil {
		uid, _ = strconv.Atoi(m[1])
	}
	logging.Info("Fixtures", "Created user %s (uid %d)", account, uid)

	all := append(append([]string(nil), roles...), account.UserRoles...)
	seen := map[string]bool{}
	for _, role := range all {
		if role == "" || seen[role] {
			continue
		}
		seen[role] = true
		roleSpec := drush.New("user:role:add").WithArgs(drush.Quote(role), drush.Quote(account.UserName))
		if _, err := h.drush.Output(ctx, roleSpec); err != nil {
			return uid, fmt.Errorf("adding role %s to %s: %w", role, account.UserName, err)
		}
	}
	return uid, nil
}

// userCancelByOption is the base for cancellations selected by option.
// Drush requires a name argument even when --uid or --mail is given.
const userCancelByOption = "user:cancel -y dummy"

// DeleteUserWithUid cancels the account with uid and deletes its content.
func (h *Helper) DeleteUserWithUid(ctx context.Context, uid int, options []string) (string, error) {
	spec := drush.New(userCancelByOption).
		WithOptions(options...).
		WithOptions(fmt.Sprintf("--uid=%d", uid), "--delete-content")
	return h.drush.Output(ctx, spec)
}

// DeleteUserWithEmail cancels the account registered to email and deletes
// its content.
func (h *Helper) DeleteUserWithEmail(ctx context.Context, email string, options []string) (string, error) {
	spec := drush.New(userCancelByOption).
		WithOptions(options...).
		WithOptions("--mail="+drush.Quote(email), "--delete-content")
	return h.drush.Output(ctx, spec)
}

// DeleteUserWithUserName cancels the named account.
func (h *Helper) DeleteUserWithUserName(ctx context.Context, userName string, args, options []string) (string, error) {
	spec := drush.New("user:cancel -y " + drush.Quote(userName)).
		WithArgs(args...).
		WithOptions(options...)
	return h.drush.Output(ctx, spec)
}

// Entity types accepted by DeleteEntity.
const (
	EntityNode     = "node"
	EntityTerm     = "taxonomy_term"
	EntityMedia    = "media"
	EntityMenuLink = "menu_link_content"
)

var entityTypeName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// DeleteEntity runs entity:delete for one entity. entityType must be a
// machine name.
func (h *Helper) DeleteEntity(ctx context.Context, entityType string, id int) (string, error) {
	if !entityTypeName.MatchString(entityType) {
		return "", fmt.Errorf("invalid entity type %q", entityType)
	}
	return h.drush.Output(ctx, drush.New("entity:delete").WithArgs(entityType, strconv.Itoa(id)))
}

func (h *Helper) DeleteNodeWithNid(ctx context.Context, nid int) (string, error) {
	return h.DeleteEntity(ctx, EntityNode, nid)
}

func (h *Helper) DeleteTermWithTid(ctx context.Context, tid int) (string, error) {
	return h.DeleteEntity(ctx, EntityTerm, tid)
}

func (h *Helper) DeleteMediaWithMid(ctx context.Context, mid int) (string, error) {
	return h.DeleteEntity(ctx, EntityMedia, mid)
}

func (h *Helper) DeleteMenuItemWithMid(ctx context.Context, mid int) (string, error) {
	return h.DeleteEntity(ctx, EntityMenuLink, mid)
}

// UserInfoByEmail returns the accounts matching email; none yields nil.
func (h *Helper) UserInfoByEmail(ctx context.Context, email string) ([]drush.UserInfo, error) {
	spec := drush.New("user:info").WithOptions("--mail="+drush.Quote(email), "--format=json")
	res, err := h.drush.Execute(ctx, spec)
	if err != nil {
		return nil, err
	}
	// Drush exits non-zero when no account matches.
	if !res.Success() {
		return nil, nil
	}
	return drush.ParseUserInfo(res.Command, res.Stdout)
}

// GetUidWithEmail returns the uid for email, or 0 when no account matches.
func (h *Helper) GetUidWithEmail(ctx context.Context, email string) (int, error) {
	users, err := h.UserInfoByEmail(ctx, email)
	if err != nil || len(users) == 0 {
		return 0, err
	}
	return users[0].UID, nil
}

// GetUsernameWithEmail returns the user name for email, or "" when no account
// matches.
func (h *Helper) GetUsernameWithEmail(ctx context.Context, email string) (string, error) {
	users, err := h.UserInfoByEmail(ctx, email)
	if err != nil || len(users) == 0 {
		return "", err
	}
	return users[0].Name, nil
}

// SetDrupalConfiguration runs cset for objectName key value. Each value is
// passed to the shell as a single quoted word.
func (h *Helper) SetDrupalConfiguration(ctx context.Context, objectName, key string, value any) (string, error) {
	spec := drush.New("cset -y").WithArgs(drush.Quote(objectName), drush.Quote(key), drush.Quote(fmt.Sprint(value)))
	return h.drush.Output(ctx, spec)
}

// FileProperties runs the kit's file:properties command for path.
func (h *Helper) FileProperties(ctx context.Context, path string) ([]drush.FileProperties, error) {
	spec := drush.New("fprop").WithArgs(drush.Quote(path)).WithOptions("--format=json")
	out, err := h.drush.Output(ctx, spec)
	if err != nil {
		return nil, err
	}
	return drush.ParseFileProperties("fprop "+path, out)
}

// RebuildSitemap regenerates XML sitemap files.
func (h *Helper) RebuildSitemap(ctx context.Context) (string, error) {
	return h.drush.Output(ctx, drush.New("xmlsitemap:rebuild"))
}

// LoginURL asks Drush for a one-time login URL. uid 0 means uid 1.
func (h *Helper) LoginURL(ctx context.Context, uid int) (string, error) {
	if uid <= 0 {
		uid = 1
	}
	spec := drush.New(fmt.Sprintf("user:login --uid=%d", uid))
	if h.cfg.BaseURL != "" {
		spec = spec.WithOptions("--uri=" + h.cfg.BaseURL)
	}
	out, err := h.drush.Output(ctx, spec)
	if err != nil {
		return "", err
	}
	return drush.ParseLoginURL("user:login", out)
}
