// Package annotator runs the annotation pipeline: it fetches the three
// candle series a document needs, computes the per-message and settlement
// quotes and writes them back into the document.
package annotator
