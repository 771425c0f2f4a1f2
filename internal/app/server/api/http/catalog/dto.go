package catalog

import "keepnotes/internal/domain/item"

type listingOutput struct {
	Body item.Listing
}

type statsOutput struct {
	Body item.Stats
}

type purgeOutput struct {
	Body item.PurgeResult
}

type bulkInput struct {
	Body item.BulkRequest
}

type bulkOutput struct {
	Body item.BulkResult
}

type searchInput struct {
	Q      string `query:"q" doc:"Текст для поиска без учета регистра"`
	Type   string `query:"type" enum:"notes,reminders,documents,urls,note,reminder,document,url" doc:"Тип сущностей"`
	Status string `query:"status" enum:"active,trashed,archived" doc:"Состояние жизненного цикла"`
}
