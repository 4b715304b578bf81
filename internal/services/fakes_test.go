package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"lingo/internal/models/db_models"
	"lingo/internal/models/request_models"
	"lingo/pkg/utils"
)

// In-memory test doubles for the repository and adapter boundaries.

type fakeSubscriptionRepo struct {
	mu      sync.Mutex
	byToken map[string]*db_models.Subscription
	// FindByAccountId returns this slice verbatim, already ordered the way
	// the real query orders it.
	byAccount map[string][]db_models.Subscription

	insertErrOnce error
	findErr       error
	// findMisses makes FindByPurchaseToken report "not found" for the next
	// N calls regardless of contents, to stage insert races.
	findMisses int
	inserts    int
	updates    int
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{
		byToken:   make(map[string]*db_models.Subscription),
		byAccount: make(map[string][]db_models.Subscription),
	}
}

func (f *fakeSubscriptionRepo) FindByPurchaseToken(ctx context.Context, purchaseToken string) (*db_models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.findMisses > 0 {
		f.findMisses--
		return nil, nil
	}
	sub, ok := f.byToken[purchaseToken]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeSubscriptionRepo) FindByAccountId(ctx context.Context, accountID string) ([]db_models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byAccount[accountID], nil
}

func (f *fakeSubscriptionRepo) Insert(ctx context.Context, sub *db_models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErrOnce != nil {
		err := f.insertErrOnce
		f.insertErrOnce = nil
		return err
	}
	if _, exists := f.byToken[sub.PurchaseToken]; exists {
		return gorm.ErrDuplicatedKey
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	cp := *sub
	f.byToken[sub.PurchaseToken] = &cp
	f.inserts++
	return nil
}

func (f *fakeSubscriptionRepo) Update(ctx context.Context, sub *db_models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *sub
	f.byToken[sub.PurchaseToken] = &cp
	f.updates++
	return nil
}

func (f *fakeSubscriptionRepo) stored(token string) *db_models.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byToken[token]
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*db_models.Account

	cacheCalls   int
	lastCacheVal bool
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*db_models.Account)}
}

func (f *fakeAccountRepo) InsertTx(account *db_models.Account, ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	f.accounts[account.ID.String()] = account
	return nil
}

func (f *fakeAccountRepo) FindById(ctx context.Context, id string) (*db_models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[id], nil
}

func (f *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	return nil
}

func (f *fakeAccountRepo) UpdatePremiumCache(ctx context.Context, id string, isPremium bool, premiumExpiry *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cacheCalls++
	f.lastCacheVal = isPremium
	return nil
}

type fakePlayClient struct {
	mu     sync.Mutex
	result *PlayVerification
	err    error
	// errs, when set, is consumed one per call before falling back to err.
	errs  []error
	calls int

	lastPackageName string
	lastProductID   string
	lastToken       string
}

func (f *fakePlayClient) VerifySubscription(ctx context.Context, packageName, productID, purchaseToken string) (*PlayVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPackageName = packageName
	f.lastProductID = productID
	f.lastToken = purchaseToken
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	} else if f.err != nil {
		return nil, f.err
	}
	cp := *f.result
	return &cp, nil
}

type fakeMailService struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeMailService) SendMailToNotifyUser(to, subject, body, ctaText, ctaURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

func (f *fakeMailService) SendMailToResetPassword(email, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, email)
	return nil
}

type fakeUsageService struct {
	mu       sync.Mutex
	counters map[string]*db_models.UsagePeriod
	err      error
}

func newFakeUsageService() *fakeUsageService {
	return &fakeUsageService{counters: make(map[string]*db_models.UsagePeriod)}
}

func usageKey(ref string, year, month int) string {
	return ref + "|" + time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func (f *fakeUsageService) GetOrCreateCurrent(ctx context.Context, subscriptionRef string, asOf time.Time) (*db_models.UsagePeriod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	year, month := utils.PeriodOf(asOf)
	key := usageKey(subscriptionRef, year, month)
	if p, ok := f.counters[key]; ok {
		return p, nil
	}
	p := &db_models.UsagePeriod{SubscriptionRef: subscriptionRef, Year: year, Month: month}
	f.counters[key] = p
	return p, nil
}

func (f *fakeUsageService) TryConsume(ctx context.Context, subscriptionRef string, asOf time.Time, feature db_models.Feature, limit int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	year, month := utils.PeriodOf(asOf)
	key := usageKey(subscriptionRef, year, month)
	p, ok := f.counters[key]
	if !ok {
		p = &db_models.UsagePeriod{SubscriptionRef: subscriptionRef, Year: year, Month: month}
		f.counters[key] = p
	}
	switch feature {
	case db_models.FeatureJourney:
		if p.JourneysUsed >= limit {
			return false, nil
		}
		p.JourneysUsed++
	case db_models.FeatureLesson:
		if p.LessonsUsed >= limit {
			return false, nil
		}
		p.LessonsUsed++
	case db_models.FeatureAudio:
		if p.AudioLessonsUsed >= limit {
			return false, nil
		}
		p.AudioLessonsUsed++
	}
	return true, nil
}

func (f *fakeUsageService) CountFor(usage *db_models.UsagePeriod, feature db_models.Feature) int {
	switch feature {
	case db_models.FeatureJourney:
		return usage.JourneysUsed
	case db_models.FeatureLesson:
		return usage.LessonsUsed
	case db_models.FeatureAudio:
		return usage.AudioLessonsUsed
	}
	return 0
}

type fakeSubscriptionService struct {
	mu    sync.Mutex
	calls []appliedVerification
	// errs is consumed one per ApplyVerification call; nil entries succeed.
	errs []error
}

type appliedVerification struct {
	PurchaseToken string
	ProductID     string
	PackageName   string
	ClaimAccount  *uuid.UUID
}

func (f *fakeSubscriptionService) VerifyAndSave(ctx context.Context, accountID string, req request_models.VerifySubscriptionRequest) (*db_models.Subscription, error) {
	uid, err := uuid.Parse(accountID)
	if err != nil {
		return nil, utils.ErrInvalidInput
	}
	return f.ApplyVerification(ctx, req.PurchaseToken, req.ProductID, req.PackageName, &uid)
}

func (f *fakeSubscriptionService) Resync(ctx context.Context, purchaseToken string) (*db_models.Subscription, error) {
	return f.ApplyVerification(ctx, purchaseToken, "", "", nil)
}

func (f *fakeSubscriptionService) ApplyVerification(ctx context.Context, purchaseToken, productID, packageName string, claimAccountID *uuid.UUID) (*db_models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, appliedVerification{
		PurchaseToken: purchaseToken,
		ProductID:     productID,
		PackageName:   packageName,
		ClaimAccount:  claimAccountID,
	})
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &db_models.Subscription{PurchaseToken: purchaseToken, Status: db_models.SubStatusActive}, nil
}

func (f *fakeSubscriptionService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeEntitlements struct {
	ent          Entitlement
	err          error
	refreshCalls int
}

func (f *fakeEntitlements) Resolve(ctx context.Context, accountID string) (Entitlement, error) {
	if f.err != nil {
		return Entitlement{}, f.err
	}
	if f.ent.SubscriptionRef == "" {
		return Entitlement{IsPremium: false, SubscriptionRef: "free:" + accountID}, nil
	}
	return f.ent, nil
}

func (f *fakeEntitlements) RefreshAccountCache(ctx context.Context, accountID string) error {
	f.refreshCalls++
	return nil
}

type fakeJourneyRepo struct {
	mu       sync.Mutex
	journeys []*db_models.Journey
	err      error
}

func (f *fakeJourneyRepo) Insert(ctx context.Context, journey *db_models.Journey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if journey.ID == uuid.Nil {
		journey.ID = uuid.New()
	}
	f.journeys = append(f.journeys, journey)
	return nil
}

func (f *fakeJourneyRepo) GetListOfJourneyByUserId(ctx context.Context, page, pageSize int, accountID string) ([]db_models.Journey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Journey
	for _, j := range f.journeys {
		if j.AccountID.String() == accountID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeJourneyRepo) GetDetailsOfJourneyById(ctx context.Context, journeyID string) (*db_models.Journey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, j := range f.journeys {
		if j.ID.String() == journeyID {
			return j, nil
		}
	}
	return nil, nil
}

type fakePlanner struct {
	outline string
	err     error
	calls   int
}

func (f *fakePlanner) GenerateOutlineJSON(ctx context.Context, targetLanguage, level, goal string, weekCount int) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.outline, nil
}

type fakeLessonRepo struct {
	mu      sync.Mutex
	lessons map[string]*db_models.Lesson
	related []db_models.Lesson
	err     error
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{lessons: make(map[string]*db_models.Lesson)}
}

func (f *fakeLessonRepo) Insert(ctx context.Context, lesson *db_models.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	f.lessons[lesson.ID.String()] = lesson
	return nil
}

func (f *fakeLessonRepo) Update(ctx context.Context, lesson *db_models.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.lessons[lesson.ID.String()] = lesson
	return nil
}

func (f *fakeLessonRepo) GetLessonById(ctx context.Context, lessonID string) (*db_models.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lessons[lessonID], nil
}

func (f *fakeLessonRepo) GetRelatedByVector(ctx context.Context, vector pgvector.Vector, excludeID string) ([]db_models.Lesson, error) {
	return f.related, nil
}

type fakeLessonGenerator struct {
	title        string
	content      string
	script       string
	generateErr  error
	scriptErr    error
	embeddingErr error
}

func (f *fakeLessonGenerator) GenerateLesson(ctx context.Context, topic, language, level string) (string, string, error) {
	if f.generateErr != nil {
		return "", "", f.generateErr
	}
	return f.title, f.content, nil
}

func (f *fakeLessonGenerator) GenerateAudioScript(ctx context.Context, title, content string) (string, error) {
	if f.scriptErr != nil {
		return "", f.scriptErr
	}
	return f.script, nil
}

func (f *fakeLessonGenerator) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	if f.embeddingErr != nil {
		return pgvector.Vector{}, f.embeddingErr
	}
	return pgvector.NewVector(make([]float32, 1536)), nil
}
