package theme

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxThemesPerUser is the per-user theme limit when none is configured.
const DefaultMaxThemesPerUser = 3

// Service resolves page styling and manages user themes. The zero store is
// allowed: resolution then works from page data and defaults alone.
type Service struct {
	store      *Store
	cache      Cache
	logger     *zap.Logger
	maxPerUser int
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCache sets the theme cache. The default is a fresh MemoryCache.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMaxThemesPerUser overrides the per-user theme limit.
func WithMaxThemesPerUser(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPerUser = n
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service backed by st, which may be nil.
func NewService(st *Store, opts ...Option) *Service {
	s := &Service{
		store:      st,
		cache:      NewMemoryCache(),
		logger:     zap.NewNop(),
		maxPerUser: DefaultMaxThemesPerUser,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxThemesPerUser returns the configured limit.
func (s *Service) MaxThemesPerUser() int { return s.maxPerUser }

// GetTheme loads a theme directly from the store, bypassing the cache.
// Returns nil, nil if the theme does not exist.
func (s *Service) GetTheme(ctx context.Context, id string) (*Theme, error) {
	if s.store == nil || id == "" {
		return nil, nil
	}
	return s.store.Get(ctx, id)
}

// GetCachedTheme returns a theme through the cache, populating it on a miss.
func (s *Service) GetCachedTheme(ctx context.Context, id string) (*Theme, error) {
	if id == "" {
		return nil, nil
	}
	if t, ok := s.cache.Get(ctx, id); ok {
		cacheLookups.WithLabelValues("hit").Inc()
		return t, nil
	}
	cacheLookups.WithLabelValues("miss").Inc()

	t, err := s.GetTheme(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}
	s.cache.Set(ctx, t)
	return t, nil
}

// ClearCache drops one theme from the cache.
func (s *Service) ClearCache(ctx context.Context, id string) {
	s.cache.Invalidate(ctx, id)
}

// ClearAllCache empties the cache.
func (s *Service) ClearAllCache(ctx context.Context) {
	s.cache.Clear(ctx)
}

// GetUserThemes lists the themes userID owns.
func (s *Service) GetUserThemes(ctx context.Context, userID string) ([]Theme, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListByUser(ctx, userID)
}

// GetSystemThemes lists the active built-in themes.
func (s *Service) GetSystemThemes(ctx context.Context) ([]Theme, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListSystem(ctx)
}

// GetAvailableThemes lists the system themes followed by userID's own.
func (s *Service) GetAvailableThemes(ctx context.Context, userID string) ([]Theme, error) {
	themes, err := s.GetSystemThemes(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return themes, nil
	}
	own, err := s.GetUserThemes(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append(themes, own...), nil
}

// CountUserThemes returns how many themes userID owns.
func (s *Service) CountUserThemes(ctx context.Context, userID string) (int, error) {
	if s.store == nil {
		return 0, nil
	}
	return s.store.CountByUser(ctx, userID)
}

// CreateTheme stores a new theme for userID and returns its id. Failures are
// *Error values classed as ErrValidation or ErrLimitExceeded, or wrapped
// store errors.
func (s *Service) CreateTheme(ctx context.Context, userID, name string, in ThemeInput) (string, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return "", err
	}
	if err := validateInput(&in); err != nil {
		return "", err
	}
	cols, err := in.columns(s.logger)
	if err != nil {
		return "", validationError("Invalid theme data")
	}
	return s.insert(ctx, userID, name, cols)
}

// CloneTheme copies theme id into a new theme owned by userID. An empty name
// defaults to "<source name> Copy".
func (s *Service) CloneTheme(ctx context.Context, id, userID, name string) (string, error) {
	src, err := s.GetTheme(ctx, id)
	if err != nil {
		return "", fmt.Errorf("load source theme: %w", err)
	}
	if src == nil {
		return "", &Error{Kind: ErrNotFound, Message: "Theme not found"}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = truncateRunes(src.Name+" Copy", MaxNameLength)
	}
	if err := validateName(name); err != nil {
		return "", err
	}

	cols := make(map[string]string)
	for _, c := range append(append([]string(nil), legacyColumns...), optionalColumns...) {
		if v := *src.column(c); v != "" {
			cols[c] = v
		}
	}
	return s.insert(ctx, userID, name, cols)
}

// UpdateUserTheme applies name (when non-nil) and the present fields of in
// to a theme owned by userID. It returns false when the theme does not
// exist, is not owned by userID, the input is invalid, or the store fails.
func (s *Service) UpdateUserTheme(ctx context.Context, id, userID string, name *string, in *ThemeInput) bool {
	if s.store == nil || userID == "" {
		return false
	}
	log := s.logger.With(zap.String("theme_id", id), zap.String("user_id", userID))

	changes := map[string]string{}
	if in != nil {
		if err := validateInput(in); err != nil {
			log.Debug("rejecting theme update", zap.Error(err))
			return false
		}
		cols, err := in.columns(s.logger)
		if err != nil {
			log.Debug("rejecting theme update", zap.Error(err))
			return false
		}
		changes = cols
	}
	if name != nil {
		n := strings.TrimSpace(*name)
		if err := validateName(n); err != nil {
			log.Debug("rejecting theme update", zap.Error(err))
			return false
		}
		changes["name"] = n
	}

	ok, err := s.store.Update(ctx, id, userID, changes, s.now().UTC())
	if err != nil {
		log.Error("failed to update theme", zap.Error(err))
		return false
	}
	if ok {
		s.cache.Invalidate(ctx, id)
		log.Info("theme updated")
	}
	return ok
}

// DeleteUserTheme removes a theme owned by userID. It returns false when the
// theme does not exist, is not owned by userID, or the store fails.
func (s *Service) DeleteUserTheme(ctx context.Context, id, userID string) bool {
	if s.store == nil || userID == "" {
		return false
	}
	ok, err := s.store.Delete(ctx, id, userID)
	if err != nil {
		s.logger.Error("failed to delete theme",
			zap.String("theme_id", id), zap.String("user_id", userID), zap.Error(err))
		return false
	}
	if ok {
		s.cache.Invalidate(ctx, id)
		s.logger.Info("theme deleted", zap.String("theme_id", id), zap.String("user_id", userID))
	}
	return ok
}

func (s *Service) insert(ctx context.Context, userID, name string, cols map[string]string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", validationError("User ID is required")
	}
	if s.store == nil {
		return "", fmt.Errorf("create theme: no store configured")
	}

	now := s.now().UTC()
	uid := userID
	t := &Theme{
		ID:        uuid.New().String(),
		UserID:    &uid,
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for c, v := range cols {
		if f := t.column(c); f != nil {
			*f = v
		}
	}

	ok, err := s.store.InsertLimited(ctx, t, s.maxPerUser)
	if err != nil {
		return "", fmt.Errorf("create theme: %w", err)
	}
	if !ok {
		return "", &Error{
			Kind:    ErrLimitExceeded,
			Message: fmt.Sprintf("You can only create up to %d custom themes", s.maxPerUser),
		}
	}
	s.cache.Invalidate(ctx, t.ID)
	s.logger.Info("theme created",
		zap.String("theme_id", t.ID), zap.String("user_id", userID), zap.String("name", name))
	return t.ID, nil
}

// columns encodes the present fields of in by column name. widget_styles is
// sanitized on the way in.
func (in *ThemeInput) columns(logger *zap.Logger) (map[string]string, error) {
	cols := make(map[string]string)
	encode := func(col string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", col, err)
		}
		cols[col] = string(data)
		return nil
	}

	if in.Colors != nil {
		if err := encode("colors", in.Colors); err != nil {
			return nil, err
		}
	}
	if in.Fonts != nil {
		if err := encode("fonts", in.Fonts); err != nil {
			return nil, err
		}
	}
	if in.WidgetStyles != nil {
		ws, err := SanitizeWidgetStyles(in.WidgetStyles)
		if err != nil {
			logger.Warn("dropping undecodable widget_styles fields", zap.Error(err))
		}
		if err := encode("widget_styles", ws); err != nil {
			return nil, err
		}
	}
	if in.VisualEffects != nil {
		if err := encode("visual_effects", in.VisualEffects); err != nil {
			return nil, err
		}
	}

	bundles := map[string]map[string]any{
		"color_tokens":      in.ColorTokens,
		"typography_tokens": in.TypographyTokens,
		"spacing_tokens":    in.SpacingTokens,
		"shape_tokens":      in.ShapeTokens,
		"motion_tokens":     in.MotionTokens,
	}
	for col, b := range bundles {
		if b == nil {
			continue
		}
		if err := encode(col, b); err != nil {
			return nil, err
		}
	}

	strs := map[string]*string{
		"page_background":       in.PageBackground,
		"widget_background":     in.WidgetBackground,
		"widget_border_color":   in.WidgetBorderColor,
		"page_primary_font":     in.PagePrimaryFont,
		"page_secondary_font":   in.PageSecondaryFont,
		"widget_primary_font":   in.WidgetPrimaryFont,
		"widget_secondary_font": in.WidgetSecondaryFont,
		"spatial_effect":        in.SpatialEffect,
		"layout_density":        in.LayoutDensity,
	}
	for col, v := range strs {
		if v != nil {
			cols[col] = strings.TrimSpace(*v)
		}
	}
	return cols, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
