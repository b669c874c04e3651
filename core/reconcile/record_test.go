package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestDecide(t *testing.T) {
	linked := &PublishedRecord{ID: 5, SourceID: "1", SourceUpdated: "t1"}

	tests := []struct {
		name   string
		src    SourceRecord
		linked *PublishedRecord
		want   Decision
	}{
		{"new active", SourceRecord{Status: StatusActive}, nil, DecisionCreate},
		{"new sold", SourceRecord{Status: StatusSold}, nil, DecisionCreate},
		{"new withdrawn", SourceRecord{Status: StatusWithdrawn}, nil, DecisionIgnore},
		{"new unknown status", SourceRecord{Status: Status("appraisal")}, nil, DecisionIgnore},
		{"unchanged", SourceRecord{Status: StatusActive, UpdatedAt: "t1"}, linked, DecisionNoop},
		{"unchanged withdrawn", SourceRecord{Status: StatusWithdrawn, UpdatedAt: "t1"}, linked, DecisionNoop},
		{"changed active", SourceRecord{Status: StatusActive, UpdatedAt: "t2"}, linked, DecisionUpdate},
		{"changed let", SourceRecord{Status: StatusLet, UpdatedAt: "t2"}, linked, DecisionUpdate},
		{"changed off market", SourceRecord{Status: StatusOffMarket, UpdatedAt: "t2"}, linked, DecisionRetire},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.src, tt.linked))
		})
	}
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusUnderOffer, ParseStatus("Under Offer"))
	assert.Equal(t, StatusUnderOffer, ParseStatus("under-offer"))
	assert.Equal(t, StatusUnderApplication, ParseStatus(" UNDER_APPLICATION "))
	assert.Equal(t, StatusOffMarket, ParseStatus("off_market"))
	assert.Equal(t, Status("appraisal"), ParseStatus("Appraisal"))
}

func TestStatusTags(t *testing.T) {
	tests := []struct {
		status     Status
		market     Market
		inspection bool
		want       []string
	}{
		{StatusActive, MarketSale, false, []string{"for sale"}},
		{StatusActive, MarketSale, true, []string{"for sale", "sales OFI"}},
		{StatusActive, MarketRent, false, []string{"for rent"}},
		{StatusActive, MarketRent, true, []string{"for rent", "rental OFI"}},
		{StatusUnderOffer, MarketSale, true, []string{"for sale", "under offer"}},
		{StatusUnderApplication, MarketRent, false, []string{"for rent", "under application"}},
		{StatusLet, MarketRent, false, []string{"leased"}},
		{StatusSold, MarketSale, false, []string{"sold"}},
		{StatusWithdrawn, MarketSale, false, nil},
		{StatusActive, Market(""), false, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.status)+"/"+string(tt.market), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusTags(tt.status, tt.market, tt.inspection))
		})
	}
}

func inspection(start, end string) SubResource {
	return SubResource{ID: start, Attributes: map[string]string{
		InspectionStartAttr: start,
		InspectionEndAttr:   end,
	}}
}

func TestNextInspection(t *testing.T) {
	events := []SubResource{
		inspection("2024-02-20T10:00:00.000+11:00", "2024-02-20T10:30:00.000+11:00"),
		inspection("2024-03-09T12:30:00.000+11:00", "2024-03-09T13:00:00.000+11:00"),
		inspection("2024-03-02T12:30:00.000+11:00", "2024-03-02T13:00:00.000+11:00"),
		inspection("soon", "later"),
	}

	next := NextInspection(events, fixedNow)

	require.NotNil(t, next)
	assert.True(t, next.Start.Equal(time.Date(2024, 3, 2, 1, 30, 0, 0, time.UTC)))
	assert.Nil(t, NextInspection(events[:1], fixedNow))
	assert.Nil(t, NextInspection(nil, fixedNow))
}

func newTestReconciler(source *fakeSource, store *fakeStore) *RecordReconciler {
	return NewRecordReconciler(source, store, titlePresenter, zap.NewNop(), func() time.Time { return fixedNow })
}

func queenStreet() SourceRecord {
	return SourceRecord{
		ID:          "101",
		Address:     "1 Queen Street",
		State:       "VIC",
		Postcode:    "3130",
		Headline:    "Sunny",
		Description: "A sunny home",
		Status:      StatusActive,
		Market:      MarketSale,
		UpdatedAt:   "2024-02-28T10:00:00+11:00",
	}
}

func TestExecute_Create(t *testing.T) {
	source := &fakeSource{}
	store := newFakeStore()
	src := queenStreet()
	src.PrimaryImage = "https://crm.test/main.jpg"
	source.setSubs("101", KindImages, sub("i1"), sub("i2"))
	source.setSubs("101", KindDocuments, SubResource{ID: "d1", URL: "https://crm.test/brochure.pdf"})
	source.setSubs("101", KindFloorPlans, SubResource{ID: "f1", URL: "https://crm.test/plan.png"})

	out := newTestReconciler(source, store).Execute(context.Background(), DecisionCreate, src, nil)

	require.NoError(t, out.Err)
	require.Len(t, store.created, 1)
	listing := store.created[0]
	assert.Equal(t, "101", listing.SourceID)
	assert.Equal(t, src.UpdatedAt, listing.SourceUpdated)
	assert.Equal(t, []string{"for sale"}, listing.StatusTags)
	assert.Equal(t, "1 Queen Street, VIC, 3130", listing.Presentation.Title)
	assert.Equal(t, 501, listing.FeaturedMediaID)
	assert.Equal(t, src.PrimaryImage, listing.FeaturedSource)
	assert.Equal(t, Links{{"i1", 502}, {"i2", 503}}, listing.Images)
	assert.Equal(t, Links{{"d1", 504}}, listing.Documents)
	assert.True(t, listing.ShowFloorPlans)
	assert.Nil(t, listing.Inspection)

	assert.Equal(t, 1001, out.PublishedID)
	assert.Equal(t, "https://site.test/property/1001", out.Link)
	assert.Equal(t, 2, out.Images.Uploaded)
	assert.Equal(t, []int{502, 503, 504, 501}, store.attached[1001])
}

func TestExecute_CreateWithInspection(t *testing.T) {
	source := &fakeSource{}
	store := newFakeStore()
	src := queenStreet()
	src.Market = MarketRent
	source.setSubs("101", KindInspections, inspection("2024-03-02T12:30:00.000+11:00", "2024-03-02T13:00:00.000+11:00"))

	out := newTestReconciler(source, store).Execute(context.Background(), DecisionCreate, src, nil)

	require.NoError(t, out.Err)
	require.Len(t, store.created, 1)
	assert.Equal(t, []string{"for rent", "rental OFI"}, store.created[0].StatusTags)
	assert.NotNil(t, store.created[0].Inspection)
	assert.Empty(t, store.attached)
}

func TestExecute_CreateWriteFailure(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("500 internal error")

	out := newTestReconciler(&fakeSource{}, store).Execute(context.Background(), DecisionCreate, queenStreet(), nil)

	require.Error(t, out.Err)
	assert.ErrorIs(t, out.Err, ErrWriteFailed)
	assert.True(t, out.Failed())
	assert.Contains(t, out.Message(), "500 internal error")
}

func TestExecute_SourceFailureUploadsNothing(t *testing.T) {
	source := &fakeSource{subErr: errors.New("crm down")}
	store := newFakeStore()
	src := queenStreet()
	src.PrimaryImage = "https://crm.test/main.jpg"

	out := newTestReconciler(source, store).Execute(context.Background(), DecisionCreate, src, nil)

	assert.ErrorIs(t, out.Err, ErrWriteFailed)
	assert.Empty(t, store.uploads)
	assert.Empty(t, store.created)
}

func TestExecute_UpdateFeaturedImage(t *testing.T) {
	const url = "https://crm.test/main.jpg"

	tests := []struct {
		name         string
		primary      string
		storedID     int
		storedSource string
		wantID       int
		wantUploads  int
	}{
		{"unchanged is reused", url, 77, url, 77, 0},
		{"changed is uploaded", url, 77, "https://crm.test/old.jpg", 501, 1},
		{"added later is uploaded", url, 0, "", 501, 1},
		{"removed is unset", "", 77, url, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			src := queenStreet()
			src.PrimaryImage = tt.primary
			linked := &PublishedRecord{ID: 9, SourceID: "101", SourceUpdated: "old", FeaturedMediaID: tt.storedID, FeaturedSource: tt.storedSource}

			out := newTestReconciler(&fakeSource{}, store).Execute(context.Background(), DecisionUpdate, src, linked)

			require.NoError(t, out.Err)
			assert.Equal(t, tt.wantID, store.updated[9].FeaturedMediaID)
			assert.Len(t, store.uploads, tt.wantUploads)
			assert.Equal(t, []int{9}, store.cleared)
		})
	}
}

func TestExecute_UpdateAttachmentsFromStoredLinks(t *testing.T) {
	source := &fakeSource{}
	store := newFakeStore()
	source.setSubs("101", KindImages, sub("a"), sub("c"))
	linked := &PublishedRecord{
		ID:            9,
		SourceID:      "101",
		SourceUpdated: "old",
		Images:        Links{{"a", 10}, {"b", 11}},
		Documents:     Links{{"d", 20}},
	}

	out := newTestReconciler(source, store).Execute(context.Background(), DecisionUpdate, queenStreet(), linked)

	require.NoError(t, out.Err)
	listing := store.updated[9]
	assert.Equal(t, Links{{"a", 10}, {"c", 501}}, listing.Images)
	assert.Empty(t, listing.Documents)
	assert.ElementsMatch(t, []int{11, 20}, store.deleted)
	assert.Equal(t, 9, out.PublishedID)
}

func TestExecute_UpdateWriteFailure(t *testing.T) {
	store := newFakeStore()
	store.updateErr = errors.New("conflict")
	linked := &PublishedRecord{ID: 9, SourceID: "101", SourceUpdated: "old"}

	out := newTestReconciler(&fakeSource{}, store).Execute(context.Background(), DecisionUpdate, queenStreet(), linked)

	assert.ErrorIs(t, out.Err, ErrWriteFailed)
}

func TestExecute_UpdateClearsTermsOnlyAfterReads(t *testing.T) {
	linked := &PublishedRecord{ID: 9, SourceID: "101", SourceUpdated: "old"}
	failingPresenter := PresenterFunc(func(ctx context.Context, r SourceRecord) (Presentation, error) {
		return Presentation{}, errors.New("agent roster unreadable")
	})

	tests := []struct {
		name        string
		source      *fakeSource
		presenter   Presenter
		wantErr     bool
		wantCleared []int
	}{
		{"CRM read fails", &fakeSource{subErr: errors.New("crm down")}, titlePresenter, true, nil},
		{"Presentation fails", &fakeSource{}, failingPresenter, true, nil},
		{"Reads succeed", &fakeSource{}, titlePresenter, false, []int{9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			r := NewRecordReconciler(tt.source, store, tt.presenter, zap.NewNop(), func() time.Time { return fixedNow })

			out := r.Execute(context.Background(), DecisionUpdate, queenStreet(), linked)

			if tt.wantErr {
				assert.ErrorIs(t, out.Err, ErrWriteFailed)
				assert.Empty(t, store.updated)
			} else {
				require.NoError(t, out.Err)
			}
			assert.Equal(t, tt.wantCleared, store.cleared)
		})
	}
}

func TestExecute_Retire(t *testing.T) {
	store := newFakeStore()
	src := queenStreet()
	src.Status = StatusWithdrawn
	linked := &PublishedRecord{ID: 9, SourceID: "101", SourceUpdated: "old"}

	out := newTestReconciler(&fakeSource{}, store).Execute(context.Background(), DecisionRetire, src, linked)

	require.NoError(t, out.Err)
	assert.Equal(t, []int{9}, store.retired)
	assert.Empty(t, store.updated)
}

func TestExecute_RetireFailure(t *testing.T) {
	linked := &PublishedRecord{ID: 9, SourceID: "101"}

	refused := newFakeStore()
	refused.retireRefused = true
	out := newTestReconciler(&fakeSource{}, refused).Execute(context.Background(), DecisionRetire, queenStreet(), linked)
	assert.ErrorIs(t, out.Err, ErrRetireFailed)

	broken := newFakeStore()
	broken.retireErr = errors.New("timeout")
	out = newTestReconciler(&fakeSource{}, broken).Execute(context.Background(), DecisionRetire, queenStreet(), linked)
	assert.ErrorIs(t, out.Err, ErrRetireFailed)
}

func TestExecute_NoopAndIgnoreHaveNoSideEffects(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(&fakeSource{}, store)

	for _, d := range []Decision{DecisionNoop, DecisionIgnore} {
		out := r.Execute(context.Background(), d, queenStreet(), nil)
		assert.NoError(t, out.Err)
	}
	assert.Empty(t, store.created)
	assert.Empty(t, store.updated)
	assert.Empty(t, store.retired)
	assert.Empty(t, store.uploads)
}
