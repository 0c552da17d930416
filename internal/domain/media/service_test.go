package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"

	identitydomain "farmbooking-go/internal/domain/identity"
	propertydomain "farmbooking-go/internal/domain/property"
	"farmbooking-go/pkg/logger"
)

const (
	propertyID1 = "11111111-1111-1111-1111-111111111111"
	ownerID1    = "22222222-2222-2222-2222-222222222222"
)

var (
	ownerCaller = identitydomain.Caller{ID: ownerID1, Role: identitydomain.RoleOwner}
	adminCaller = identitydomain.Caller{ID: "33333333-3333-3333-3333-333333333333", Role: identitydomain.RoleAdmin}
)

type fakeMediaRepo struct {
	assets     map[string]*MediaAsset
	failCreate bool
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{assets: make(map[string]*MediaAsset)}
}

func (r *fakeMediaRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	shadow := newFakeMediaRepo()
	for k, v := range r.assets {
		cp := *v
		shadow.assets[k] = &cp
	}
	shadow.failCreate = r.failCreate
	if err := fn(shadow); err != nil {
		return err
	}
	r.assets = shadow.assets
	return nil
}

func (r *fakeMediaRepo) Create(ctx context.Context, asset *MediaAsset) error {
	if r.failCreate {
		return fmt.Errorf("insert failed")
	}
	cp := *asset
	r.assets[asset.ID] = &cp
	return nil
}

func (r *fakeMediaRepo) GetByID(ctx context.Context, id string) (*MediaAsset, error) {
	asset, ok := r.assets[id]
	if !ok {
		return nil, ErrMediaNotFound
	}
	cp := *asset
	return &cp, nil
}

func (r *fakeMediaRepo) ListByProperty(ctx context.Context, propertyID string) ([]MediaAsset, error) {
	result := make([]MediaAsset, 0)
	for _, asset := range r.assets {
		if asset.PropertyID == propertyID {
			result = append(result, *asset)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *fakeMediaRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.assets[id]; !ok {
		return ErrMediaNotFound
	}
	delete(r.assets, id)
	return nil
}

// fakeFileStore records files in memory and honors the same limit contract as
// the disk store.
type fakeFileStore struct {
	files      map[string][]byte
	removed    []string
	failRemove bool
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: make(map[string][]byte)}
}

func (s *fakeFileStore) Save(dir, filename string, src io.Reader, limit int64) (int64, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return 0, err
	}
	if int64(len(data)) > limit {
		return 0, ErrUploadTooLarge
	}
	s.files[dir+"/"+filename] = data
	return int64(len(data)), nil
}

func (s *fakeFileStore) Remove(dir, filename string) error {
	key := dir + "/" + filename
	s.removed = append(s.removed, key)
	if s.failRemove {
		return fmt.Errorf("remove failed")
	}
	delete(s.files, key)
	return nil
}

type fakePropertyDirectory struct {
	properties map[string]*propertydomain.Property
}

func (d *fakePropertyDirectory) GetByID(ctx context.Context, id string) (*propertydomain.Property, error) {
	prop, ok := d.properties[id]
	if !ok {
		return nil, propertydomain.ErrPropertyNotFound
	}
	return prop, nil
}

func newMediaService(repo *fakeMediaRepo, store *fakeFileStore) *Service {
	props := &fakePropertyDirectory{properties: map[string]*propertydomain.Property{
		propertyID1: {ID: propertyID1, Name: "Casa Verde", OwnerID: ownerID1},
	}}
	log := logger.New(io.Discard, slog.LevelError, "text")
	return NewService(repo, store, props, Limits{MaxImageBytes: 100, MaxVideoBytes: 1000}, log)
}

func TestUploadStoresFilesAndRows(t *testing.T) {
	repo := newFakeMediaRepo()
	store := newFakeFileStore()
	svc := newMediaService(repo, store)

	uploads := []Upload{
		{Filename: "Front Door.JPG", ContentType: "image/jpeg", Reader: strings.NewReader("jpeg bytes")},
		{Filename: "tour.mp4", ContentType: "video/mp4", Reader: strings.NewReader("video bytes")},
	}
	assets, err := svc.Upload(context.Background(), ownerCaller, propertyID1, uploads)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	if assets[0].Kind != KindImage || assets[1].Kind != KindVideo {
		t.Fatalf("unexpected kinds %q and %q", assets[0].Kind, assets[1].Kind)
	}
	if !strings.HasSuffix(assets[0].Filename, ".jpg") {
		t.Fatalf("expected lowercased extension kept, got %q", assets[0].Filename)
	}
	if strings.Contains(assets[0].Filename, "Front") {
		t.Fatalf("client filename must not leak into storage: %q", assets[0].Filename)
	}
	if len(store.files) != 2 || len(repo.assets) != 2 {
		t.Fatalf("expected 2 files and 2 rows, got %d and %d", len(store.files), len(repo.assets))
	}
	wantPrefix := "/media/property_" + propertyID1 + "/"
	if !strings.HasPrefix(assets[0].URL(), wantPrefix) {
		t.Fatalf("unexpected url %q", assets[0].URL())
	}
}

func TestUploadUnsupportedTypeCleansUp(t *testing.T) {
	repo := newFakeMediaRepo()
	store := newFakeFileStore()
	svc := newMediaService(repo, store)

	uploads := []Upload{
		{Filename: "a.jpg", ContentType: "image/jpeg", Reader: strings.NewReader("ok")},
		{Filename: "b.pdf", ContentType: "application/pdf", Reader: strings.NewReader("nope")},
	}
	_, err := svc.Upload(context.Background(), ownerCaller, propertyID1, uploads)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if len(store.files) != 0 {
		t.Fatalf("expected already written files removed, got %d left", len(store.files))
	}
	if len(repo.assets) != 0 {
		t.Fatalf("expected no rows, got %d", len(repo.assets))
	}
}

func TestUploadOverLimitCleansUp(t *testing.T) {
	repo := newFakeMediaRepo()
	store := newFakeFileStore()
	svc := newMediaService(repo, store)

	uploads := []Upload{
		{Filename: "a.jpg", ContentType: "image/jpeg", Reader: strings.NewReader("small")},
		{Filename: "b.jpg", ContentType: "image/jpeg", Reader: strings.NewReader(strings.Repeat("x", 200))},
	}
	_, err := svc.Upload(context.Background(), ownerCaller, propertyID1, uploads)
	if !errors.Is(err, ErrUploadTooLarge) {
		t.Fatalf("expected ErrUploadTooLarge, got %v", err)
	}
	if len(store.files) != 0 || len(repo.assets) != 0 {
		t.Fatalf("expected full cleanup, got %d files and %d rows", len(store.files), len(repo.assets))
	}
}

func TestUploadRowFailureRemovesFiles(t *testing.T) {
	repo := newFakeMediaRepo()
	repo.failCreate = true
	store := newFakeFileStore()
	svc := newMediaService(repo, store)

	uploads := []Upload{{Filename: "a.jpg", ContentType: "image/jpeg", Reader: strings.NewReader("ok")}}
	_, err := svc.Upload(context.Background(), ownerCaller, propertyID1, uploads)
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(store.files) != 0 {
		t.Fatalf("expected stored file removed after row failure")
	}
}

func TestUploadForbiddenForOtherOwner(t *testing.T) {
	repo := newFakeMediaRepo()
	store := newFakeFileStore()
	svc := newMediaService(repo, store)

	stranger := identitydomain.Caller{ID: "99999999-9999-9999-9999-999999999999", Role: identitydomain.RoleOwner}
	uploads := []Upload{{Filename: "a.jpg", ContentType: "image/jpeg", Reader: strings.NewReader("ok")}}
	_, err := svc.Upload(context.Background(), stranger, propertyID1, uploads)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDeleteRemovesRowEvenIfFileRemovalFails(t *testing.T) {
	repo := newFakeMediaRepo()
	store := newFakeFileStore()
	store.failRemove = true
	svc := newMediaService(repo, store)

	repo.assets["m-1"] = &MediaAsset{ID: "m-1", PropertyID: propertyID1, Kind: KindImage, Filename: "a.jpg"}

	if err := svc.Delete(context.Background(), adminCaller, propertyID1, "m-1"); err != nil {
		t.Fatalf("file removal failure must not block deletion, got %v", err)
	}
	if _, ok := repo.assets["m-1"]; ok {
		t.Fatalf("expected row deleted")
	}
}

func TestDeleteChecksPropertyMatch(t *testing.T) {
	repo := newFakeMediaRepo()
	store := newFakeFileStore()
	svc := newMediaService(repo, store)

	repo.assets["m-1"] = &MediaAsset{ID: "m-1", PropertyID: "other-property", Kind: KindImage, Filename: "a.jpg"}

	err := svc.Delete(context.Background(), adminCaller, propertyID1, "m-1")
	if !errors.Is(err, ErrMediaNotFound) {
		t.Fatalf("expected ErrMediaNotFound, got %v", err)
	}
}

func TestListScopedToProperty(t *testing.T) {
	repo := newFakeMediaRepo()
	store := newFakeFileStore()
	svc := newMediaService(repo, store)

	repo.assets["m-1"] = &MediaAsset{ID: "m-1", PropertyID: propertyID1, Kind: KindImage, Filename: "a.jpg"}
	repo.assets["m-2"] = &MediaAsset{ID: "m-2", PropertyID: "other-property", Kind: KindImage, Filename: "b.jpg"}

	assets, err := svc.List(context.Background(), ownerCaller, propertyID1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(assets) != 1 || assets[0].ID != "m-1" {
		t.Fatalf("unexpected assets %+v", assets)
	}
}
