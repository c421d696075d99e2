package efficiency

import "strings"

// ProductIdentity is "{code-or-description}|{supplierId}".
type ProductIdentity string

// IdentityNormalizer rewrites the description used as identity when a line has no product code.
type IdentityNormalizer func(description string) string

// KeepDescription leaves descriptions untouched.
func KeepDescription(description string) string {
	return description
}

// NormalizeWhitespaceFold lowercases and collapses runs of whitespace so that
// "Olive  Oil " and "olive oil" land in the same series.
func NormalizeWhitespaceFold(description string) string {
	return strings.Join(strings.Fields(strings.ToLower(description)), " ")
}

// productLabel returns the code, or the normalized description for uncoded lines.
func productLabel(record TransactionRecord, normalize IdentityNormalizer) string {
	if code := strings.TrimSpace(record.ProductCode); code != "" {
		return code
	}
	if normalize == nil {
		normalize = KeepDescription
	}
	return normalize(record.Description)
}

func identityFor(label, supplierID string) ProductIdentity {
	return ProductIdentity(label + "|" + supplierID)
}
