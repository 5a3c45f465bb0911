package handler

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter mounts the API under /api/v1. Route names label the request
// metrics.
func NewRouter(editors *EditorHandler, workspace *WorkspaceHandler, log *logrus.Entry) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(log))
	r.Use(Metrics)

	// API routes are versioned so the parent product can call /api/v1/* without conflicts
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/sessions", editors.CreateSession).Methods("POST").Name("create_session")
	api.HandleFunc("/sessions/{id}", editors.GetSession).Methods("GET").Name("get_session")
	api.HandleFunc("/sessions/{id}", editors.CommitSession).Methods("PUT").Name("commit_session")
	api.HandleFunc("/sessions/{id}", editors.DeleteSession).Methods("DELETE").Name("delete_session")
	api.HandleFunc("/sessions/{id}/edit", editors.CancelEdit).Methods("DELETE").Name("cancel_edit")
	api.HandleFunc("/sessions/{id}/type", editors.SelectType).Methods("POST").Name("select_type")
	api.HandleFunc("/sessions/{id}/fields", editors.SetField).Methods("POST").Name("set_field")
	api.HandleFunc("/sessions/{id}/file", editors.SelectFile).Methods("POST").Name("select_file")
	api.HandleFunc("/sessions/{id}/file/remove", editors.RemoveFile).Methods("POST").Name("remove_file")
	api.HandleFunc("/sessions/{id}/slides", editors.SetSlides).Methods("POST").Name("set_slides")
	api.HandleFunc("/sessions/{id}/preview", editors.Preview).Methods("GET").Name("preview")

	api.HandleFunc("/sessions/{id}/scenario", editors.GetScenario).Methods("GET").Name("get_scenario")
	api.HandleFunc("/sessions/{id}/strategy", editors.OpenStrategy).Methods("POST").Name("open_strategy")
	api.HandleFunc("/sessions/{id}/strategy", editors.CloseStrategy).Methods("DELETE").Name("close_strategy")
	api.HandleFunc("/sessions/{id}/events", editors.PublishEvent).Methods("POST").Name("publish_event")
	api.HandleFunc("/sessions/{id}/intervention", editors.OpenIntervention).Methods("POST").Name("open_intervention")
	api.HandleFunc("/sessions/{id}/intervention", editors.ApplyIntervention).Methods("PUT").Name("apply_intervention")
	api.HandleFunc("/sessions/{id}/intervention", editors.CancelIntervention).Methods("DELETE").Name("cancel_intervention")
	api.HandleFunc("/sessions/{id}/intervention/fields", editors.SetInterventionField).Methods("POST").Name("set_intervention_field")
	api.HandleFunc("/sessions/{id}/collection", editors.OpenCollection).Methods("POST").Name("open_collection")
	api.HandleFunc("/sessions/{id}/collection", editors.ApplyCollection).Methods("PUT").Name("apply_collection")
	api.HandleFunc("/sessions/{id}/collection", editors.CancelCollection).Methods("DELETE").Name("cancel_collection")
	api.HandleFunc("/sessions/{id}/collection/items", editors.AddCollectionItem).Methods("POST").Name("add_collection_item")
	api.HandleFunc("/sessions/{id}/collection/items/{index}", editors.RemoveCollectionItem).Methods("DELETE").Name("remove_collection_item")
	api.HandleFunc("/sessions/{id}/collection/items/{index}/edit", editors.SelectCollectionItem).Methods("POST").Name("select_collection_item")
	api.HandleFunc("/sessions/{id}/collection/move", editors.MoveCollectionItem).Methods("POST").Name("move_collection_item")
	api.HandleFunc("/sessions/{id}/collection/item", editors.SaveCollectionItem).Methods("PUT").Name("save_collection_item")
	api.HandleFunc("/sessions/{id}/collection/item", editors.CancelCollectionItem).Methods("DELETE").Name("cancel_collection_item")
	api.HandleFunc("/sessions/{id}/collection/item/fields", editors.SetCollectionItemField).Methods("POST").Name("set_collection_item_field")
	api.HandleFunc("/sessions/{id}/collection/validate", editors.ValidateCollection).Methods("POST").Name("validate_collection")

	api.HandleFunc("/workspace/delete", workspace.DeleteFiles).Methods("POST").Name("delete_workspace_files")
	api.HandleFunc("/workspace/exists", workspace.FilesExist).Methods("POST").Name("workspace_files_exist")
	api.HandleFunc("/strategy-handlers", workspace.StrategyHandlers).Methods("GET").Name("strategy_handlers")
	api.HandleFunc("/properties/{name}", workspace.Property).Methods("GET").Name("server_property")
	api.HandleFunc("/upload", workspace.Upload).Methods("POST").Name("upload")

	return r
}
