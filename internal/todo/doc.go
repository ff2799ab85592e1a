// Package todo defines the task shapes exchanged with the to-do backend and
// validates wire payloads before they are decoded.
//
// A list card renders a Summary:
//
//	{
//	  "id": "6f1c...",
//	  "title": "Buy milk",
//	  "preview": "Two litres, semi-skimmed",
//	  "isCompleted": false
//	}
//
// Opening a card fetches the Detail:
//
//	{
//	  "id": "6f1c...",
//	  "title": "Buy milk",
//	  "content": "Two litres, semi-skimmed. Check the date.",
//	  "isCompleted": false,
//	  "lastModificationTime": "2024-03-01T09:30:00Z"
//	}
//
// # Validation
//
// Payloads are checked against the embedded JSON Schemas in schema/ before
// decoding. A violation is reported as a *ValidationError whose Path is a
// dot-notation location such as "[2].title".
package todo
