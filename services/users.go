package services

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"ecochat-core/models"
	"ecochat-core/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// UserService maintains user rows: registration, profile edits, activity and search.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func validateNameEmail(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return "", "", invalidInput("name is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", "", invalidInput("invalid email address")
	}
	return name, email, nil
}

func emailTaken(db *gorm.DB, email string, exceptID uint) (bool, error) {
	var n int64
	q := db.Model(&models.User{}).Where("email_key = ?", models.FoldKey(email))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}

// Register creates a user. The password is only hashed and stored here;
// credential checks belong to the auth service.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name, email, err := validateNameEmail(name, email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, invalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	db := s.DB.WithContext(ctx)
	if taken, err := emailTaken(db, email, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	utils.LogSuccess("New user registered: #%d %s", user.ID, user.Email)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	return loadUser(s.DB.WithContext(ctx), userID)
}

// UpdateProfile changes the display name and email of userID.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, name, email string) (*models.User, error) {
	name, email, err := validateNameEmail(name, email)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := loadUser(tx, userID)
		if err != nil {
			return err
		}
		if taken, err := emailTaken(tx, email, userID); err != nil {
			return err
		} else if taken {
			return ErrEmailTaken
		}

		u.Name = name
		u.Email = email
		if err := tx.Select("name", "email", "name_key", "name_search", "email_key", "updated_at").Save(u).Error; err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	utils.LogInfo("✏️  Profile updated: #%d %s <%s>", user.ID, user.Name, user.Email)
	return user, nil
}

// TouchActivity counts now's calendar day as active for userID, once per day.
// It reports whether this call was the first activity of the day.
func (s *UserService) TouchActivity(ctx context.Context, userID uint, now time.Time) (bool, error) {
	today := now.Format("2006-01-02")
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND last_active_on <> ?", userID, today).
		UpdateColumns(map[string]interface{}{
			"days_active":    gorm.Expr("days_active + 1"),
			"last_active_on": today,
		})
	if res.Error != nil {
		return false, fmt.Errorf("touch activity: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SearchResult is a user found by name search, seen from the searcher.
type SearchResult struct {
	ID           uint             `json:"id"`
	Name         string           `json:"name"`
	Points       int64            `json:"points"`
	Level        string           `json:"level"`
	Relationship models.PairState `json:"relationship"`
}

// likeEscaper keeps user input from acting as LIKE wildcards.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// maxSearchMatches caps how many candidate rows a single search loads.
const maxSearchMatches = 500

// Search finds users whose name contains query, ignoring case and accents
// ("joao" finds "João"). The caller is excluded from results.
func (s *UserService) Search(ctx context.Context, callerID uint, query string, limit int) ([]SearchResult, error) {
	needle := models.SearchKey(query)
	if needle == "" {
		return nil, invalidInput("search query is required")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	db := s.DB.WithContext(ctx)

	var matches []models.User
	if err := db.Select("id", "name", "points").
		Where("id <> ? AND name_search LIKE ? ESCAPE '\\'", callerID, "%"+likeEscaper.Replace(needle)+"%").
		Order("id ASC").
		Limit(maxSearchMatches).
		Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Name != matches[j].Name {
			return matches[i].Name < matches[j].Name
		}
		return matches[i].ID < matches[j].ID
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	var edges []models.Friendship
	if err := db.Where("requester_id = ? OR addressee_id = ?", callerID, callerID).Find(&edges).Error; err != nil {
		return nil, fmt.Errorf("load relationships: %w", err)
	}
	states := make(map[uint]models.PairState, len(edges))
	for i := range edges {
		states[edges[i].Other(callerID)] = edges[i].State()
	}

	out := make([]SearchResult, 0, len(matches))
	for _, u := range matches {
		rel, ok := states[u.ID]
		if !ok {
			rel = models.PairStateNone
		}
		out = append(out, SearchResult{
			ID:           u.ID,
			Name:         u.Name,
			Points:       u.Points,
			Level:        LevelFor(u.Points).Name,
			Relationship: rel,
		})
	}
	return out, nil
}

// BackfillNameSearch fills the search column for rows written before it
// existed. It returns how many users were updated.
func (s *UserService) BackfillNameSearch(ctx context.Context) (int, error) {
	db := s.DB.WithContext(ctx)
	updated := 0
	var batch []models.User
	err := db.Select("id", "name").
		Where("name_search = ?", "").
		FindInBatches(&batch, 200, func(_ *gorm.DB, _ int) error {
			for _, u := range batch {
				key := models.SearchKey(u.Name)
				if key == "" {
					continue
				}
				if err := db.Model(&models.User{}).Where("id = ?", u.ID).UpdateColumn("name_search", key).Error; err != nil {
					return err
				}
				updated++
			}
			return nil
		}).Error
	if err != nil {
		return updated, fmt.Errorf("backfill name search: %w", err)
	}
	if updated > 0 {
		utils.LogInfo("🔎 Search keys backfilled for %d user(s)", updated)
	}
	return updated, nil
}
