package lineage

import (
	"net/http"

	"geodata/internal/handler/http/data"
	"geodata/internal/handler/http/pathutil"
	"geodata/internal/handler/http/respond"
	"geodata/internal/handler/http/source"
	lineageUC "geodata/internal/usecase/lineage"
)

type TraceHandler struct{ Svc *lineageUC.Service }

// ServeHTTP データ来歴トレース
// @Summary      データ来歴トレース
// @Description  データエントリ、その系譜レコード（古い順）、取得元ソースをまとめて返します。ソースが解決できない場合 source_info は null です。
// @Tags         lineage
// @Produce      json
// @Param        entry_id path string true "データエントリID (UUID)"
// @Success      200 {object} TraceResponse "来歴"
// @Failure      404 {string} string "Not found - data entry not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/lineage/trace/{entry_id} [get]
func (h TraceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathutil.PathValue(r, "entry_id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := h.Svc.Trace(r.Context(), entryID)
	if err != nil {
		respond.SafeError(w, errorStatus(err), err)
		return
	}
	respond.JSON(w, http.StatusOK, TraceResponse{
		DataEntry:           data.NewEntryDTO(res.Entry),
		Records:             newRecordDTOs(res.Records),
		SourceInfo:          source.NewDTO(res.Source),
		TotalLineageRecords: res.Total,
	})
}

type QualityReportHandler struct{ Svc *lineageUC.Service }

// ServeHTTP 品質レポート
// @Summary      品質レポート
// @Description  品質指標を持つ全系譜レコードを集計し、検証状態の分布、指標ごとの平均値と充足率を返します。対象が無い場合はメッセージのみを返します。
// @Tags         lineage
// @Produce      json
// @Success      200 {object} QualityReportDTO "品質レポート"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/lineage/quality-report [get]
func (h QualityReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Svc.QualityReport(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	if !rep.HasData {
		respond.JSON(w, http.StatusOK, EmptyReportDTO{Message: "No quality metrics available"})
		return
	}
	respond.JSON(w, http.StatusOK, QualityReportDTO{
		TotalRecords:                 rep.TotalRecords,
		ValidationStatusDistribution: rep.StatusDistribution,
		AverageQualityMetrics:        rep.AverageMetrics,
		QualityMetricCoverage:        rep.MetricCoverage,
	})
}

type StatsHandler struct{ Svc *lineageUC.Service }

// ServeHTTP 系譜統計
// @Summary      系譜統計
// @Description  系譜レコード数（検証状態別）と、系譜を持つデータエントリの割合を返します
// @Tags         lineage
// @Produce      json
// @Success      200 {object} StatsDTO "系譜統計"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/lineage/stats [get]
func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	st, err := h.Svc.Stats(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, StatsDTO{
		TotalLineageRecords:       st.TotalLineageRecords,
		ValidatedRecords:          st.ValidatedRecords,
		PendingRecords:            st.PendingRecords,
		FailedRecords:             st.FailedRecords,
		TotalDataEntries:          st.TotalDataEntries,
		EntriesWithLineage:        st.EntriesWithLineage,
		EntriesWithoutLineage:     st.EntriesWithoutLineage,
		LineageCoveragePercentage: st.CoveragePercentage,
	})
}
