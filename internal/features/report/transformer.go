package report

import (
	"context"
	"strings"

	"go-cityreport/internal/backend"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// lookupConcurrency bounds in-flight admin lookups per batch.
const lookupConcurrency = 8

// UserDirectory is the slice of the backend adapter the transformer needs.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*backend.AdminUser, error)
}

// Transformer turns persisted rows into display-ready records: it resolves
// each submitter's display name through the auth backend and applies field
// defaults. Lookup failures never abort a batch; the affected record falls
// back to the unknown-citizen sentinel.
type Transformer struct {
	users  UserDirectory
	logger *zap.Logger
}

func NewTransformer(users UserDirectory, logger *zap.Logger) *Transformer {
	return &Transformer{users: users, logger: logger}
}

// Transform processes rows concurrently but returns records in input order.
func (t *Transformer) Transform(ctx context.Context, rows []RawReportRow) []ReportRecord {
	records := make([]ReportRecord, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			records[i] = t.transformOne(ctx, row)
			return nil
		})
	}
	// Workers never return errors; failures degrade per record.
	_ = g.Wait()

	return records
}

func (t *Transformer) transformOne(ctx context.Context, row RawReportRow) ReportRecord {
	citizen := UnknownCitizen

	user, err := t.users.GetUserByID(ctx, row.UserID)
	if err != nil {
		t.logger.Debug("submitter lookup failed",
			zap.Int64("report_id", row.ID),
			zap.String("user_id", row.UserID),
			zap.Error(err))
	} else if user != nil {
		if name := resolveCitizenName(user); name != "" {
			citizen = name
		}
	}

	return ReportRecord{
		ID:            row.ID,
		Citizen:       citizen,
		UserID:        row.UserID,
		Type:          defaultString(row.ReportType, DefaultType),
		Description:   defaultString(row.Description, DefaultDescription),
		Location:      defaultString(row.Location, DefaultLocation),
		Latitude:      row.Latitude,
		Longitude:     row.Longitude,
		ImagePath:     row.ImagePath,
		Priority:      defaultString(row.Priority, DefaultPriority),
		Status:        defaultString(row.Status, DefaultStatus),
		DateSubmitted: row.CreatedAt,
		CreatedAt:     row.CreatedAt,
	}
}

// resolveCitizenName joins firstname and lastname from whichever metadata bag
// is populated. Returns "" when neither yields a non-empty name.
func resolveCitizenName(user *backend.AdminUser) string {
	for _, meta := range []map[string]any{user.UserMetadata, user.RawUserMetaData} {
		if meta == nil {
			continue
		}
		first, _ := meta["firstname"].(string)
		last, _ := meta["lastname"].(string)
		if name := strings.TrimSpace(first + " " + last); name != "" {
			return name
		}
	}
	return ""
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
