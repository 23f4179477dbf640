package media

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/copyfy/copyfy/pkg/formatting"
	"github.com/copyfy/copyfy/pkg/identity"
	"github.com/copyfy/copyfy/pkg/pagination"
	"github.com/copyfy/copyfy/pkg/query"
	"github.com/copyfy/copyfy/pkg/repository"
	"github.com/copyfy/copyfy/pkg/storage"
)

// keywordIndexProbe checks for the GIN index that keyword membership
// queries depend on. Created by a later migration than the media table
// itself, so a partially migrated store legitimately lacks it.
const keywordIndexProbe = `SELECT to_regclass('public.media_keywords_gin') IS NOT NULL`

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a media repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "media"),
		pagination: pagination,
	}
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "SourceURL")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count media: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	records, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query media: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

// Create commits one media item in two phases: the blob upload must fully
// succeed before the record exists. A record insert failure after a
// committed blob is reported, and the blob is left behind as an
// acknowledged orphan for the sweeper rather than rolled back.
func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Record, error) {
	if !LicenseAllowed(cmd.License) {
		return nil, ErrLicense
	}

	id := uuid.New()
	path := StoragePath(cmd.OwnerID, id, cmd.Mime)

	if err := r.storage.Upload(ctx, path, cmd.Body, cmd.ByteSize, cmd.Mime, cmd.Progress); err != nil {
		return nil, fmt.Errorf("upload media blob: %w", err)
	}

	downloadURL, err := r.storage.DownloadURL(path)
	if err != nil {
		return nil, fmt.Errorf("resolve download url: %w", err)
	}

	title := NormalizeTitle(cmd.Title)
	keywords := formatting.Keywords(title, cmd.Tags)

	rec := Record{
		ID:          id,
		Title:       title,
		Tags:        cmd.Tags,
		Keywords:    keywords,
		SourceURL:   NormalizeSourceURL(cmd.SourceURL),
		License:     cmd.License,
		OwnerID:     cmd.OwnerID,
		CreatedAt:   time.Now().UnixMilli(),
		DownloadURL: downloadURL,
		StoragePath: path,
		Mime:        cmd.Mime,
		ByteSize:    cmd.ByteSize,
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}

	q := `
		INSERT INTO media(id, title, tags, keywords, source_url, license, owner_id, created_at, download_url, storage_path, mime, byte_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, title, tags, keywords, source_url, license, owner_id, created_at, download_url, storage_path, mime, byte_size`

	insertArgs := []any{
		rec.ID,
		rec.Title,
		pq.Array(rec.Tags),
		pq.Array(rec.Keywords),
		rec.SourceURL,
		rec.License,
		rec.OwnerID,
		rec.CreatedAt,
		rec.DownloadURL,
		rec.StoragePath,
		rec.Mime,
		rec.ByteSize,
	}

	saved, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Record, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanRecord)
	})
	if err != nil {
		r.logger.Warn("record insert failed after blob commit, orphan blob remains", "path", path, "error", err)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("media created", "id", saved.ID, "owner", saved.OwnerID, "path", saved.StoragePath)
	return &saved, nil
}

// Delete removes the record first, then its blob. Only the owner may
// delete. A blob delete failure after the record is gone leaves an
// unreferenced object; that is logged, not surfaced as an error.
func (r *repo) Delete(ctx context.Context, id uuid.UUID, principal identity.Principal) error {
	rec, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	if !rec.OwnedBy(principal.ID) {
		return ErrNotOwner
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM media WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, rec.StoragePath); delErr != nil {
		r.logger.Warn(
			"blob delete failed after record delete, orphan blob remains",
			"path", rec.StoragePath,
			"error", delErr,
		)
	}

	r.logger.Info("media deleted", "id", id)
	return nil
}

func (r *repo) Search(ctx context.Context, q SearchQuery) ([]Record, error) {
	tokens := q.Tokens
	if len(tokens) > formatting.MaxWords {
		tokens = tokens[:formatting.MaxWords]
	}

	if len(tokens) > 0 {
		exists, err := r.KeywordIndexExists(ctx)
		if err != nil {
			return nil, fmt.Errorf("probe keyword index: %w", err)
		}
		if !exists {
			return nil, ErrIndexRequired
		}
	}

	sort := []query.SortField{
		{Field: "CreatedAt", Descending: !q.OldestFirst},
		{Field: "ID", Descending: !q.OldestFirst},
	}

	qb := query.NewBuilder(projection).OrderByFields(sort)

	if q.License != "" && q.License != LicenseAll {
		qb.WhereEquals("License", q.License)
	}
	if len(tokens) > 0 {
		qb.WhereOverlaps("Keywords", pq.Array(tokens))
	}
	if q.After != nil {
		qb.WhereKeysetAfter("CreatedAt", "ID", q.After.CreatedAt, q.After.ID, !q.OldestFirst)
	}

	sqlText, args := qb.BuildLimit(q.Limit)

	records, err := repository.QueryMany(ctx, r.db, sqlText, args, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("search media: %w", err)
	}

	return records, nil
}

func (r *repo) KeywordIndexExists(ctx context.Context) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, keywordIndexProbe).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// StoragePath derives the blob key for a media object from its owner, its
// generated id, and an extension inferred from the MIME type.
func StoragePath(ownerID string, id uuid.UUID, mime string) string {
	return fmt.Sprintf("images/%s/%s.%s", ownerID, id, ExtensionForMime(mime))
}

// ExtensionForMime maps the allowed image MIME types to file extensions.
// Unrecognized types fall back to a generic extension; extension inference
// never fails an upload.
func ExtensionForMime(mime string) string {
	switch mime {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "img"
	}
}
