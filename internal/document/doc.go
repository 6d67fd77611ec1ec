// Package document reads and rewrites the messages file that pricestamp annotates.
//
// The file is a JSON object:
//
//	{
//	  "ticker": "GOOG",
//	  "initialPrice": 0,
//	  "messages": [{"date": "2025-10-22", "time": "09:45", ...}],
//	  "settlement": {"date": "2026-01-29"}
//	}
//
// Only price fields are edited; every other key, its order and its text are
// kept as written. Output is indented with two spaces and ends in a newline.
package document
