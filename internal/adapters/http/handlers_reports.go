package web

import (
	"net/http"

	"studylog/internal/application/orchestrators"
	"studylog/internal/domain/category"
	"studylog/internal/domain/report"
)

// handleReports handles GET (read a day) and POST (record a day) for /reports
func handleReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		sess, ok := requireAccess(w, r)
		if !ok {
			return
		}
		date := r.URL.Query().Get("date")
		if date == "" {
			date = timeNow().UTC().Format("2006-01-02")
		}

		rep, err := stores.ReportStore.GetByAccountAndDate(ctx, sess.AccountID, date)
		if err != nil {
			// No report recorded for the date yet
			writeJSON(w, http.StatusOK, map[string]any{
				"date":  date,
				"items": []report.DailyReportItem{},
			})
			return
		}
		items, err := stores.ReportStore.ListItemsByReportID(ctx, rep.ID)
		if err != nil {
			internalError(w, err)
			return
		}
		if items == nil {
			items = []report.DailyReportItem{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"date":         rep.Date,
			"totalMinutes": rep.TotalMinutes,
			"items":        items,
		})
		return
	}

	if r.Method == "POST" {
		sess, ok := requireAccess(w, r)
		if !ok {
			return
		}
		var input struct {
			Date  string `json:"Date"`
			Items []struct {
				CategoryID string `json:"CategoryID"`
				Minutes    int    `json:"Minutes"`
				Note       string `json:"Note"`
			} `json:"Items"`
		}
		if err := strictDecode(r, &input); err != nil {
			jsonError(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		orchInput := orchestrators.SaveReportInput{
			AccountID: sess.AccountID,
			Date:      input.Date,
		}
		for _, it := range input.Items {
			orchInput.Items = append(orchInput.Items, orchestrators.SaveReportItemInput{
				CategoryID: it.CategoryID,
				Minutes:    it.Minutes,
				Note:       it.Note,
			})
		}

		rep, err := orchestrators.ExecuteSaveReport(ctx, orchInput, orchestrators.SaveReportDeps{
			ReportStore:   stores.ReportStore,
			CategoryStore: stores.CategoryStore,
			GenerateID:    generateID,
			Now:           timeNow,
		})
		if err != nil {
			switch err {
			case report.ErrInvalidDate, report.ErrNegativeMinutes, report.ErrNoItems,
				orchestrators.ErrCategoryNotOwned:
				jsonError(w, err.Error(), http.StatusBadRequest)
			default:
				internalError(w, err)
			}
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"id":           rep.ID,
			"date":         rep.Date,
			"totalMinutes": rep.TotalMinutes,
		})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleCategories handles GET/POST/DELETE for /categories
func handleCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := requireAccess(w, r)
	if !ok {
		return
	}

	if r.Method == "GET" {
		cats, err := stores.CategoryStore.ListByAccount(ctx, sess.AccountID)
		if err != nil {
			internalError(w, err)
			return
		}
		if cats == nil {
			cats = []category.Category{}
		}
		writeJSON(w, http.StatusOK, cats)
		return
	}

	if r.Method == "POST" {
		var input struct {
			CategoryID string `json:"CategoryID"`
			Name       string `json:"Name"`
			Color      string `json:"Color"`
		}
		if err := strictDecode(r, &input); err != nil {
			jsonError(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		cat, err := orchestrators.ExecuteSaveCategory(ctx, orchestrators.SaveCategoryInput{
			CategoryID: input.CategoryID,
			AccountID:  sess.AccountID,
			Name:       input.Name,
			Color:      input.Color,
		}, orchestrators.SaveCategoryDeps{
			CategoryStore: stores.CategoryStore,
			GenerateID:    generateID,
			Now:           timeNow,
		})
		if err != nil {
			switch err {
			case orchestrators.ErrCategoryNotFound:
				jsonError(w, err.Error(), http.StatusNotFound)
			case orchestrators.ErrCategoryNameTaken, category.ErrEmptyName,
				category.ErrNameTooLong, category.ErrInvalidColor:
				jsonError(w, err.Error(), http.StatusBadRequest)
			default:
				internalError(w, err)
			}
			return
		}

		status := http.StatusCreated
		if input.CategoryID != "" {
			status = http.StatusOK
		}
		writeJSON(w, status, cat)
		return
	}

	if r.Method == "DELETE" {
		id := r.URL.Query().Get("id")
		if id == "" {
			jsonError(w, "id is required", http.StatusBadRequest)
			return
		}
		err := orchestrators.ExecuteDeleteCategory(ctx, orchestrators.DeleteCategoryInput{
			CategoryID: id,
			AccountID:  sess.AccountID,
		}, orchestrators.SaveCategoryDeps{
			CategoryStore: stores.CategoryStore,
			GenerateID:    generateID,
			Now:           timeNow,
		})
		if err != nil {
			if err == orchestrators.ErrCategoryNotFound {
				jsonError(w, err.Error(), http.StatusNotFound)
				return
			}
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}
