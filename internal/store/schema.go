package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	kvTableName     = "kv"
	eventsTableName = "llm_request_events"
)

var (
	// KVColumns holds the columns of the session key-value table.
	KVColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeBytes},
		{Name: "updated_at", Type: field.TypeInt64, Comment: "Unix seconds of the last write"},
	}
	// KVTable holds the schema of the session key-value table.
	KVTable = &schema.Table{
		Name:       kvTableName,
		Columns:    KVColumns,
		PrimaryKey: []*schema.Column{KVColumns[0]},
	}

	// LLMRequestEventsColumns holds the columns of the LLM request event log.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "timestamp", Type: field.TypeInt64, Comment: "Unix milliseconds, UTC"},
		{Name: "session_id", Type: field.TypeString, Default: ""},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString, Comment: "practice-start or practice-answer"},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LLMRequestEventsTable holds the schema of the LLM request event log.
	LLMRequestEventsTable = &schema.Table{
		Name:       eventsTableName,
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_timestamp",
				Unique:  false,
				Columns: []*schema.Column{LLMRequestEventsColumns[1]},
			},
			{
				Name:    "llmrequestevent_session_id",
				Unique:  false,
				Columns: []*schema.Column{LLMRequestEventsColumns[2]},
			},
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{LLMRequestEventsColumns[5]},
			},
		},
	}

	// Tables holds every table the store migrates.
	Tables = []*schema.Table{
		KVTable,
		LLMRequestEventsTable,
	}
)

// eventColumns is the select list for a full LLMRequestEvent row.
var eventColumns = []string{
	"id", "timestamp", "session_id", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success", "error_message",
	"request_body", "response_body",
}
