// Package market models the regular trading session of an exchange.
//
// A Session answers two questions for any instant:
//   - is the regular session open (weekday, Open <= local clock < Close)?
//   - if not, on which date does the next regular session start?
//
// Exchange holidays are not modelled; a weekday without trading simply has no
// candles, which callers observe as a failed lookup.
package market
