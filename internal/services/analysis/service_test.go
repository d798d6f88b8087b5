package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redclay/finwire/internal/common"
	"github.com/redclay/finwire/internal/interfaces"
	"github.com/redclay/finwire/internal/models"
)

type fakeReportStore struct {
	saved []*models.Report
}

func (f *fakeReportStore) SaveReport(report *models.Report) error {
	f.saved = append(f.saved, report)
	return nil
}

func (f *fakeReportStore) GetReport(id string) (*models.Report, error) {
	for _, report := range f.saved {
		if report.ID == id {
			return report, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (f *fakeReportStore) ListReports() ([]*models.Report, error) {
	return f.saved, nil
}

func (f *fakeReportStore) DeleteReport(id string) error {
	for i, report := range f.saved {
		if report.ID == id {
			f.saved = append(f.saved[:i], f.saved[i+1:]...)
			return nil
		}
	}
	return interfaces.ErrNotFound
}

type fakeLLM struct {
	completion *models.Completion
	failures   int
	calls      int
	lastPrompt string
}

func (f *fakeLLM) GenerateAnalysis(ctx context.Context, prompt string) (*models.Completion, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.calls <= f.failures {
		return nil, errors.New("transport error")
	}
	return f.completion, nil
}

func (f *fakeLLM) Close() error { return nil }

func testAnalysisConfig() *common.AnalysisConfig {
	return &common.AnalysisConfig{
		Hours:            6,
		MaxNews:          200,
		ScheduledHours:   12,
		ScheduledMaxNews: 300,
		SummaryLimit:     100,
		MaxPromptChars:   30000,
		FocusedCompanies: []string{"宁德时代"},
	}
}

func newTestService(articles *fakeArticleStore, reports *fakeReportStore, llm *fakeLLM) *Service {
	return NewService(articles, reports, llm, testAnalysisConfig(), common.GetLogger())
}

func TestRun_FullResponse(t *testing.T) {
	articles := newFakeArticleStore()
	articles.addArticle("1", "央行降准", "降准0.5个百分点", time.Hour)
	articles.addArticle("2", "新能源走强", "板块全线上涨", 2*time.Hour)
	articles.addArticle("3", "出口数据超预期", "同比增长8%", 3*time.Hour)

	reports := &fakeReportStore{}
	llm := &fakeLLM{completion: &models.Completion{
		Reasoning: "先梳理消息面。",
		Content:   "综合来看偏多。\n```json\n{\"news_impact\": \"偏多\", \"policy_impact\": \"宽松\", \"market_prediction\": \"看涨\", \"company_predictions\": {\"宁德时代\": \"受益\"}}\n```",
	}}

	report, err := newTestService(articles, reports, llm).Run(context.Background(), Options{
		FocusedCompanies: []string{"宁德时代"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.NewsCount != 3 {
		t.Errorf("NewsCount = %d, want 3", report.NewsCount)
	}
	if report.ID == "" || report.CreatedAt.IsZero() {
		t.Error("report identity fields not set")
	}
	if report.ReasoningTrace != "先梳理消息面。" {
		t.Errorf("ReasoningTrace = %q", report.ReasoningTrace)
	}
	if report.NewsImpact != "偏多" || report.PolicyImpact != "宽松" || report.MarketPrediction != "看涨" {
		t.Errorf("structured fields = %q/%q/%q", report.NewsImpact, report.PolicyImpact, report.MarketPrediction)
	}
	if len(report.CompanyPredictions) != 1 || report.CompanyPredictions[0].Company != "宁德时代" {
		t.Errorf("CompanyPredictions = %+v", report.CompanyPredictions)
	}
	if len(reports.saved) != 1 {
		t.Fatalf("saved %d reports, want 1", len(reports.saved))
	}
}

func TestRun_ParseFailureStillSavesReport(t *testing.T) {
	articles := newFakeArticleStore()
	articles.addArticle("1", "标题一", "", time.Hour)
	articles.addArticle("2", "标题二", "", 2*time.Hour)
	articles.addArticle("3", "标题三", "", 3*time.Hour)

	reports := &fakeReportStore{}
	llm := &fakeLLM{completion: &models.Completion{
		Reasoning: "推理过程",
		Content:   "今天市场整体震荡，没有给出结构化结论。",
	}}

	report, err := newTestService(articles, reports, llm).Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.NewsCount != 3 {
		t.Errorf("NewsCount = %d, want 3", report.NewsCount)
	}
	if report.Narrative == "" || report.ReasoningTrace == "" {
		t.Error("narrative and reasoning must survive a parse failure")
	}
	if report.NewsImpact != "" || report.PolicyImpact != "" || report.MarketPrediction != "" {
		t.Error("structured fields should be absent on parse failure")
	}
	if report.CompanyPredictions == nil || len(report.CompanyPredictions) != 0 {
		t.Errorf("CompanyPredictions = %v, want empty slice", report.CompanyPredictions)
	}
	if len(reports.saved) != 1 {
		t.Fatalf("saved %d reports, want 1", len(reports.saved))
	}
}

func TestRun_RetriesTransportFailureOnce(t *testing.T) {
	articles := newFakeArticleStore()
	articles.addArticle("1", "标题", "", time.Hour)

	llm := &fakeLLM{
		failures:   1,
		completion: &models.Completion{Content: "{\"news_impact\": \"a\"}"},
	}

	_, err := newTestService(articles, &fakeReportStore{}, llm).Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if llm.calls != 2 {
		t.Errorf("LLM calls = %d, want 2", llm.calls)
	}
}

func TestRun_SecondFailureAborts(t *testing.T) {
	articles := newFakeArticleStore()
	articles.addArticle("1", "标题", "", time.Hour)

	reports := &fakeReportStore{}
	llm := &fakeLLM{failures: 2, completion: &models.Completion{Content: "x"}}

	_, err := newTestService(articles, reports, llm).Run(context.Background(), Options{})
	if err == nil {
		t.Fatal("expected error after two transport failures")
	}
	if len(reports.saved) != 0 {
		t.Errorf("saved %d reports, want 0", len(reports.saved))
	}
}

func TestRun_NoArticles(t *testing.T) {
	llm := &fakeLLM{completion: &models.Completion{Content: "x"}}

	_, err := newTestService(newFakeArticleStore(), &fakeReportStore{}, llm).Run(context.Background(), Options{})
	if !errors.Is(err, ErrNoArticles) {
		t.Errorf("got %v, want ErrNoArticles", err)
	}
	if llm.calls != 0 {
		t.Errorf("LLM called %d times for an empty window", llm.calls)
	}
}

func TestRunScheduled_UsesConfiguredWatchlist(t *testing.T) {
	articles := newFakeArticleStore()
	articles.addArticle("1", "标题", "", time.Hour)

	llm := &fakeLLM{completion: &models.Completion{Content: "{}"}}

	report, err := newTestService(articles, &fakeReportStore{}, llm).RunScheduled(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.FocusedCompanies) != 1 || report.FocusedCompanies[0] != "宁德时代" {
		t.Errorf("FocusedCompanies = %v", report.FocusedCompanies)
	}
}

func TestBuildPrompt_CompanySection(t *testing.T) {
	withCompanies := BuildPrompt("新闻文本", 6, []string{"宁德时代", "比亚迪"})
	if !strings.Contains(withCompanies, "宁德时代、比亚迪") {
		t.Error("prompt missing the focused company names")
	}
	if !strings.Contains(withCompanies, "company_predictions") {
		t.Error("prompt missing the company_predictions JSON field")
	}

	without := BuildPrompt("新闻文本", 6, nil)
	if strings.Contains(without, "company_predictions") {
		t.Error("prompt should omit company_predictions without a watchlist")
	}
	if !strings.Contains(without, "新闻文本") {
		t.Error("prompt missing the window text")
	}
}
