// Package seed provisions the demo data set: two branches, a global and a
// branch manager, one scale per branch and their alert thresholds. Running it
// twice changes nothing; existing rows are never overwritten.
package seed

import (
	"context"
	"fmt"

	"scale-monitor-backend/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const DefaultPassword = "Admin123!"

type BranchSeed struct {
	Code string
	Name string

	MinWeight         float64
	MaxWeight         float64
	StaleAfterMinutes int
}

type UserSeed struct {
	Email       string
	Name        string
	Role        models.UserRole
	BranchCodes []string
}

type ScaleSeed struct {
	DeviceID   string
	APIKey     string
	Label      string
	BranchCode string

	// Override, if any. Nil fields inherit the branch value.
	MinWeight *float64
	MaxWeight *float64
}

type Dataset struct {
	Password string
	Branches []BranchSeed
	Users    []UserSeed
	Scales   []ScaleSeed
}

func f64(v float64) *float64 { return &v }

// Demo is the data set the dashboard ships with.
func Demo(password string) Dataset {
	if password == "" {
		password = DefaultPassword
	}
	return Dataset{
		Password: password,
		Branches: []BranchSeed{
			{Code: "NORTE", Name: "Sucursal Norte", MinWeight: 0.2, MaxWeight: 22, StaleAfterMinutes: 25},
			{Code: "CENTRO", Name: "Sucursal Centro", MinWeight: 0.2, MaxWeight: 25, StaleAfterMinutes: 30},
		},
		Users: []UserSeed{
			{Email: "admin@scale.local", Name: "Admin Global", Role: models.RoleGlobalManager},
			{Email: "sucursal.norte@scale.local", Name: "Gestor Norte", Role: models.RoleBranchManager, BranchCodes: []string{"NORTE"}},
		},
		Scales: []ScaleSeed{
			{DeviceID: "SCALE-001", APIKey: "devkey-001", Label: "Balanza Helado 1", BranchCode: "NORTE", MaxWeight: f64(20)},
			{DeviceID: "SCALE-002", APIKey: "devkey-002", Label: "Balanza Helado 2", BranchCode: "CENTRO"},
		},
	}
}

// Validate catches references to branches the data set does not define.
func (d Dataset) Validate() error {
	codes := make(map[string]bool, len(d.Branches))
	for _, b := range d.Branches {
		if b.MinWeight >= b.MaxWeight {
			return fmt.Errorf("branch %s: minWeight must be lower than maxWeight", b.Code)
		}
		codes[b.Code] = true
	}
	for _, u := range d.Users {
		if !u.Role.Valid() {
			return fmt.Errorf("user %s: invalid role %q", u.Email, u.Role)
		}
		for _, c := range u.BranchCodes {
			if !codes[c] {
				return fmt.Errorf("user %s: unknown branch %s", u.Email, c)
			}
		}
	}
	for _, s := range d.Scales {
		if !codes[s.BranchCode] {
			return fmt.Errorf("scale %s: unknown branch %s", s.DeviceID, s.BranchCode)
		}
	}
	return nil
}

// Apply writes the data set in one transaction.
func Apply(ctx context.Context, db *gorm.DB, d Dataset, log *zap.Logger) error {
	if err := d.Validate(); err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(d.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		branchIDs := make(map[string]string, len(d.Branches))
		for _, want := range d.Branches {
			var b models.Branch
			if err := tx.Where(models.Branch{Code: want.Code}).
				Attrs(models.Branch{Name: want.Name}).
				FirstOrCreate(&b).Error; err != nil {
				return fmt.Errorf("branch %s: %w", want.Code, err)
			}
			branchIDs[want.Code] = b.ID

			var cfg models.BranchAlertConfig
			if err := tx.Where(models.BranchAlertConfig{BranchID: b.ID}).
				Attrs(models.BranchAlertConfig{
					MinWeight:         want.MinWeight,
					MaxWeight:         want.MaxWeight,
					StaleAfterMinutes: want.StaleAfterMinutes,
				}).
				FirstOrCreate(&cfg).Error; err != nil {
				return fmt.Errorf("alert config of %s: %w", want.Code, err)
			}
		}

		for _, want := range d.Users {
			var u models.User
			if err := tx.Where(models.User{Email: want.Email}).
				Attrs(models.User{PasswordHash: string(passwordHash), Name: want.Name, Role: want.Role}).
				FirstOrCreate(&u).Error; err != nil {
				return fmt.Errorf("user %s: %w", want.Email, err)
			}
			for _, code := range want.BranchCodes {
				var grant models.BranchAccess
				if err := tx.Where(models.BranchAccess{UserID: u.ID, BranchID: branchIDs[code]}).
					FirstOrCreate(&grant).Error; err != nil {
					return fmt.Errorf("grant %s -> %s: %w", want.Email, code, err)
				}
			}
		}

		for _, want := range d.Scales {
			keyHash, err := bcrypt.GenerateFromPassword([]byte(want.APIKey), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hashing key of %s: %w", want.DeviceID, err)
			}

			var s models.Scale
			if err := tx.Where(models.Scale{DeviceID: want.DeviceID}).
				Attrs(models.Scale{
					APIKeyHash: string(keyHash),
					Label:      want.Label,
					BranchID:   branchIDs[want.BranchCode],
					Active:     true,
				}).
				FirstOrCreate(&s).Error; err != nil {
				return fmt.Errorf("scale %s: %w", want.DeviceID, err)
			}

			if want.MinWeight == nil && want.MaxWeight == nil {
				continue
			}
			var o models.ScaleAlertConfig
			if err := tx.Where(models.ScaleAlertConfig{ScaleID: s.ID}).
				Attrs(models.ScaleAlertConfig{MinWeight: want.MinWeight, MaxWeight: want.MaxWeight}).
				FirstOrCreate(&o).Error; err != nil {
				return fmt.Errorf("override of %s: %w", want.DeviceID, err)
			}
		}

		log.Info("seed applied",
			zap.Int("branches", len(d.Branches)),
			zap.Int("users", len(d.Users)),
			zap.Int("scales", len(d.Scales)),
		)
		return nil
	})
}
