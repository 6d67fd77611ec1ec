// Package report renders annotation results as a console table or an XLSX workbook.
package report
