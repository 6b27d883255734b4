// Package boardsearch provides an embedded Go client for boardsearch, the
// cross-entity relevance search over kanban boards, lists and cards,
// backed by Valkey or Redis.
//
// The client runs the search pipeline in-process against the same storage
// layout as the HTTP service, so both can share one database.
//
//	client, _ := boardsearch.New(ctx, boardsearch.WithValkey("localhost:6379", ""))
//	defer client.Close()
//
//	_, _ = client.Corpus().PutBoard(ctx, boardsearch.Board{ID: boardID, Title: "Platform", Owner: alice})
//	_, _ = client.Corpus().PutCard(ctx, boardsearch.Card{ID: cardID, Title: "Fix auth bug", List: listID, Board: boardID})
//
//	page, _ := client.Search(ctx, alice, boardsearch.Query{
//	    Text:    "auth",
//	    Filters: boardsearch.Filters{Status: boardsearch.StatusOpen},
//	})
//	_, _ = client.History().Save(ctx, page.SearchID, alice)
package boardsearch
