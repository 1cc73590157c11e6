package workflow

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysisPayload(labs int) map[string]interface{} {
	values := make([]map[string]interface{}, 0, labs)
	for i := 0; i < labs; i++ {
		values = append(values, map[string]interface{}{
			"name": fmt.Sprintf("Lab%d", i), "value": 100 + i, "unit": "mg/dL", "status": "normal",
		})
	}
	return map[string]interface{}{
		"success": true,
		"analysis": map[string]interface{}{
			"summary":         map[string]interface{}{"totalTests": labs, "normalCount": labs},
			"patientInfo":     map[string]interface{}{"name": "John Doe", "age": 45, "gender": "Male"},
			"labValues":       values,
			"recommendations": []string{"Follow up in 3 months"},
			"disclaimer":      "For education only.",
		},
	}
}

func TestDemo_BasicAnalysisFlow(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.on(http.MethodPost, AnalyzePath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{
			"success":        true,
			"flowId":         "flow-123",
			"status":         "awaiting_clarification",
			"processingTime": "1200ms",
			"plan": map[string]interface{}{
				"title": "Medical Report Analysis",
				"steps": []map[string]interface{}{{"name": "Parse", "status": "completed"}},
			},
			"clarifications": []map[string]interface{}{
				{"id": "gender-clarification", "question": "Confirm gender", "options": []string{"Male", "Female"}},
				{"id": "already", "question": "Answered before", "answered": true},
				{"id": "fasting", "question": "Were you fasting?"},
			},
		}
	})
	var mu sync.Mutex
	clarified := 0
	fs.on(http.MethodPost, ClarifyPath, func(map[string]interface{}) (int, interface{}) {
		mu.Lock()
		defer mu.Unlock()
		clarified++
		if clarified == 1 {
			return http.StatusOK, map[string]interface{}{
				"status":                  "awaiting_clarification",
				"remainingClarifications": []map[string]interface{}{{"id": "fasting"}},
			}
		}
		return http.StatusOK, map[string]interface{}{"status": "completed", "remainingClarifications": []interface{}{}}
	})
	fs.on(http.MethodPost, GeneratePath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusOK, analysisPayload(8)
	})

	d, buf := newTestDemo(srv.URL)
	ok, err := d.BasicAnalysis(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "flow-123", d.FlowID())

	clarify := fs.calls(http.MethodPost, ClarifyPath)
	require.Len(t, clarify, 2)
	assert.Equal(t, "flow-123", clarify[0].Body["flowId"])
	assert.Equal(t, "gender-clarification", clarify[0].Body["questionId"])
	assert.Equal(t, "Male", clarify[0].Body["answer"])
	assert.Equal(t, "demo@example.com", clarify[0].Body["userEmail"])
	assert.Equal(t, "flow-123", clarify[1].Body["flowId"])
	assert.Equal(t, "Yes", clarify[1].Body["answer"])

	generate := fs.calls(http.MethodPost, GeneratePath)
	require.Len(t, generate, 1)
	assert.Equal(t, "flow-123", generate[0].Body["flowId"])

	out := buf.String()
	assert.Contains(t, out, "✅ Analysis started successfully! Flow ID: flow-123")
	assert.Contains(t, out, "❓ Found 3 clarification questions:")
	assert.Contains(t, out, "    1. Male")
	assert.Contains(t, out, "❓ 1 clarifications remaining")
	assert.Contains(t, out, "🎉 All clarifications answered!")
	assert.Contains(t, out, "🎉 Final Analysis Generated Successfully!")
	assert.Len(t, linesWith(out, "✅ Lab"), MaxDisplayedLabValues)
	assert.Empty(t, linesWith(out, "ERROR:"))
}

func TestDemo_AnalysisFailed(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.on(http.MethodPost, AnalyzePath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusTooManyRequests, `{"error":"Too many requests"}`
	})

	d, buf := newTestDemo(srv.URL)
	ok, err := d.BasicAnalysis(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), `ERROR: ❌ Analysis failed: {"error":"Too many requests"}`)
	assert.Empty(t, fs.calls(http.MethodPost, ClarifyPath))
}

func TestDemo_NoFinalizeUntilCompleted(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.on(http.MethodPost, AnalyzePath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{"flowId": "flow-2", "status": "planning"}
	})

	d, buf := newTestDemo(srv.URL)
	ok, err := d.AnalyzeReport(context.Background(), SampleReport, LevelSimple)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, fs.calls(http.MethodPost, GeneratePath))
	assert.NotContains(t, buf.String(), "Workflow Plan")
}

func TestDemo_FinalResultsWithoutAnalysis(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.on(http.MethodPost, GeneratePath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{"success": true}
	})

	d, buf := newTestDemo(srv.URL)
	ok, err := d.FinalResults(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, linesWith(buf.String(), "ERROR:"), 1)
}

func TestDemo_FinalResultsLooseNumbers(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.on(http.MethodPost, GeneratePath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusOK, `{"success":true,"analysis":{
			"patientInfo":{"name":"Jane Roe","age":"28","gender":"Female"},
			"labValues":[{"name":"iron","value":null,"unit":"ug/dL","status":"unknown"}]}}`
	})

	d, buf := newTestDemo(srv.URL)
	ok, err := d.FinalResults(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	out := buf.String()
	assert.Contains(t, out, "  • Age: 28")
	assert.Contains(t, out, "❓ iron: n/a ug/dL")
	assert.Empty(t, linesWith(out, "ERROR:"))
}

func TestDemo_AbnormalReport(t *testing.T) {
	tests := []struct {
		name    string
		digest  interface{}
		want    []string
		missing []string
	}{
		{
			name:   "abnormal values",
			digest: map[string]interface{}{"summary": map[string]interface{}{"highCount": 1, "lowCount": 4}},
			want:   []string{"⚠️ ABNORMAL VALUES DETECTED:", "  • 1 values above normal range", "  • 4 values below normal range"},
		},
		{
			name:   "all normal",
			digest: map[string]interface{}{"summary": map[string]interface{}{"normalCount": 7}},
			want:   []string{"✅ All values within normal ranges"},
		},
		{
			name:    "no digest",
			digest:  nil,
			missing: []string{"ABNORMAL", "within normal ranges"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, srv := newFakeService(t)
			fs.on(http.MethodPost, AnalyzePath, func(map[string]interface{}) (int, interface{}) {
				return http.StatusOK, map[string]interface{}{"flowId": "flow-a", "status": "completed", "finalAnalysis": tt.digest}
			})

			d, buf := newTestDemo(srv.URL)
			ok, err := d.AbnormalReport(context.Background())
			require.NoError(t, err)
			assert.True(t, ok)

			calls := fs.calls(http.MethodPost, AnalyzePath)
			require.Len(t, calls, 1)
			assert.Equal(t, AbnormalReport, calls[0].Body["reportText"])
			assert.Empty(t, fs.calls(http.MethodPost, GeneratePath))

			out := buf.String()
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, m := range tt.missing {
				assert.NotContains(t, out, m)
			}
		})
	}
}

func TestDemo_ProbeAnalyzeServiceError(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.on(http.MethodPost, AnalyzePath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusInternalServerError, `{"error":"Internal server error"}`
	})

	d, buf := newTestDemo(srv.URL)
	report, err := d.ProbeEndpoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ProbeUnavailable, report.Health)
	assert.Equal(t, ProbeFailed, report.Analyze)
	assert.Equal(t, ProbeSkipped, report.Clarify)
	assert.Equal(t, ProbeSkipped, report.Generate)

	out := buf.String()
	assert.Contains(t, out, "⚠️ Health check endpoint not available")
	assert.Contains(t, out, "❌ Analyze endpoint failed: 500")
	assert.Empty(t, fs.calls(http.MethodPost, ClarifyPath))
}

func TestDemo_ProbeSyntheticFlow(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.on(http.MethodGet, HealthPath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{"status": "healthy"}
	})
	fs.on(http.MethodPost, AnalyzePath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{"flowId": "probe-1", "status": "planning"}
	})
	fs.on(http.MethodPost, ClarifyPath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusNotFound, `{"error":"Flow not found"}`
	})
	fs.on(http.MethodPost, GeneratePath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusConflict, `{"error":"conflict"}`
	})

	d, buf := newTestDemo(srv.URL)
	report, err := d.ProbeEndpoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ProbeOK, report.Health)
	assert.Equal(t, "healthy", report.HealthStatus)
	assert.Equal(t, ProbeOK, report.Analyze)
	assert.Equal(t, ProbeOK, report.Clarify)
	assert.Equal(t, ProbeFailed, report.Generate)

	analyze := fs.calls(http.MethodPost, AnalyzePath)
	require.Len(t, analyze, 1)
	assert.Equal(t, ProbeReportText, analyze[0].Body["reportText"])
	_, hasPrefs := analyze[0].Body["userPreferences"]
	assert.False(t, hasPrefs)

	clarify := fs.calls(http.MethodPost, ClarifyPath)
	require.Len(t, clarify, 1)
	assert.Equal(t, "probe-1", clarify[0].Body["flowId"])
	assert.Equal(t, "test", clarify[0].Body["questionId"])
	_, hasEmail := clarify[0].Body["userEmail"]
	assert.False(t, hasEmail)

	assert.Contains(t, buf.String(), "⚠️ Generate endpoint issue: 409")
}

func TestDemo_RunConnectionFailure(t *testing.T) {
	fs, srv := newFakeService(t)
	srv.Close()

	d, buf := newTestDemo(srv.URL)
	assert.False(t, d.Run(context.Background()))
	assert.Zero(t, fs.total())

	out := buf.String()
	errs := linesWith(out, "ERROR:")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Could not connect to the server at "+srv.URL)
	assert.Contains(t, out, "INFO: 💡 Run: npm run dev")
	assert.NotContains(t, out, "Starting Basic")
	assert.NotContains(t, out, "Problematic")
}

func routeHappyPath(fs *fakeService) {
	fs.on(http.MethodGet, HealthPath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{"status": "healthy"}
	})
	fs.on(http.MethodPost, AnalyzePath, func(body map[string]interface{}) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{"flowId": "flow-run", "status": "completed"}
	})
	fs.on(http.MethodPost, ClarifyPath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{"status": "completed"}
	})
	fs.on(http.MethodPost, GeneratePath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusOK, analysisPayload(3)
	})
}

func TestDemo_RunHappyPath(t *testing.T) {
	fs, srv := newFakeService(t)
	routeHappyPath(fs)

	d, buf := newTestDemo(srv.URL)
	d.cfg.Demo.PauseAfterBasic = 2 * time.Second
	d.cfg.Demo.PauseAfterAbnormal = time.Second
	var pauses []time.Duration
	d.sleep = func(_ context.Context, dur time.Duration) error {
		pauses = append(pauses, dur)
		return nil
	}

	assert.True(t, d.Run(context.Background()))
	assert.Equal(t, []time.Duration{2 * time.Second, time.Second}, pauses)
	assert.Len(t, fs.calls(http.MethodPost, AnalyzePath), 3)

	out := buf.String()
	assert.Contains(t, out, "🎉 DEMO COMPLETED SUCCESSFULLY!")
	assert.Contains(t, out, "  • Comprehensive disclaimers")
	assert.Empty(t, linesWith(out, "ERROR:"))
}

func TestDemo_RunAbortsWhenBasicFails(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.on(http.MethodPost, AnalyzePath, func(body map[string]interface{}) (int, interface{}) {
		if body["reportText"] == ProbeReportText {
			return http.StatusOK, map[string]interface{}{"status": "planning"}
		}
		return http.StatusInternalServerError, `{"error":"engine down"}`
	})

	d, buf := newTestDemo(srv.URL)
	d.sleep = func(context.Context, time.Duration) error {
		t.Fatal("no pause expected after a failed basic scenario")
		return nil
	}

	assert.False(t, d.Run(context.Background()))
	out := buf.String()
	errs := linesWith(out, "ERROR:")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Analysis failed")
	assert.NotContains(t, out, "Problematic")
}

func TestDemo_RunRecoversPanic(t *testing.T) {
	fs, srv := newFakeService(t)
	routeHappyPath(fs)

	d, buf := newTestDemo(srv.URL)
	d.sleep = func(context.Context, time.Duration) error {
		panic("pause broke")
	}

	assert.False(t, d.Run(context.Background()))
	errs := linesWith(buf.String(), "ERROR:")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Demo failed with error: pause broke")
}

func TestDemo_ShowStatus(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.on(http.MethodGet, GeneratePath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{
			"flowId": "flow-s",
			"status": "awaiting_clarification",
			"clarifications": []map[string]interface{}{
				{"id": "data-quality", "question": "Proceed?", "options": []string{"Yes, proceed with available data"}},
			},
		}
	})

	d, buf := newTestDemo(srv.URL)
	ok, err := d.ShowStatus(context.Background(), "flow-s")
	require.NoError(t, err)
	assert.True(t, ok)
	out := buf.String()
	assert.Contains(t, out, "📊 Status: awaiting_clarification")
	assert.Contains(t, out, "❓ 1 clarifications pending:")
	assert.Contains(t, out, "  Q: Proceed?")
}

func TestDemo_ShowStatusUnknownFlow(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.on(http.MethodGet, GeneratePath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusNotFound, `{"error":"Flow not found"}`
	})

	d, buf := newTestDemo(srv.URL)
	ok, err := d.ShowStatus(context.Background(), "flow-gone")
	require.NoError(t, err)
	assert.False(t, ok)
	errs := linesWith(buf.String(), "ERROR:")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "❌ Flow flow-gone not found")
}

func TestDemo_ShowStatusServiceError(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.on(http.MethodGet, GeneratePath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusInternalServerError, `{"error":"boom"}`
	})

	d, buf := newTestDemo(srv.URL)
	ok, err := d.ShowStatus(context.Background(), "flow-x")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), `❌ Failed to get flow status (500): {"error":"boom"}`)
}
