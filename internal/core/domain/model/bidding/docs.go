// Package bidding contains the reverse-auction ledger for freight orders.
//
// Each biddable order owns one Bidding aggregate. Transporters compete by
// undercutting: every new bid must be strictly lower than the current
// lowest pending bid, and no bid may fall below 80% of the platform's
// fair price estimate. The ledger caps at 10 bids, closes when a bid is
// accepted or the auction window ends, and keeps rejected bids for audit.
//
// Bids are entities owned by the ledger; place, update, cancel, accept and
// reject all go through Bidding methods so the competitive invariants hold.
package bidding
