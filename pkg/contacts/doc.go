// Package contacts loads the ordered recipient list for a campaign.
//
// A Contact is a flat map of field name to value. Lists come from a CSV file
// with a header row (decoded as ISO-8859-1), from a query against a SQLite
// file, or from a query against PostgreSQL. Load never fails: problems are
// logged and an empty list is returned, which callers treat as "nothing to
// send".
//
//	list := contacts.Load(ctx, log, files, contacts.Source{
//		Kind:  contacts.KindSQLite,
//		Path:  "crm.db",
//		Query: contacts.DefaultQuery,
//	})
package contacts
