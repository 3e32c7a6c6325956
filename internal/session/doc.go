// Package session caches authenticated browser state per test account.
//
// LoginViaForm clears the live browser cookies, then tries the persisted
// record for the account: it is imported and checked by visiting the
// validation page and looking for the authenticated-only marker. Only when
// no usable record exists is the login form driven. A successful form login
// exports the browser state and persists it through a Store.
//
// FileStore is the default Store. It writes one JSON file per account under
// the configured auth directory and guards each file with an advisory lock,
// so concurrent runs logging in as the same account serialise their writes.
package session
