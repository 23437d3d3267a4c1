// Package gst implements India GST rules used by the sales pipeline:
// GSTIN validation, intra/inter-state routing, per-line and per-invoice
// tax math, ITC reversal adjustments and the GSTR period summary.
package gst

import (
	"regexp"
	"strings"
)

// GSTINLength is the fixed length of a GSTIN
const GSTINLength = 15

var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// stateCodes lists the state and union territory codes recognised in a GSTIN prefix.
// 25 and 28 are legacy codes that still appear on registrations issued before the
// Daman & Diu merger and the Andhra Pradesh split.
var stateCodes = map[string]string{
	"01": "Jammu and Kashmir",
	"02": "Himachal Pradesh",
	"03": "Punjab",
	"04": "Chandigarh",
	"05": "Uttarakhand",
	"06": "Haryana",
	"07": "Delhi",
	"08": "Rajasthan",
	"09": "Uttar Pradesh",
	"10": "Bihar",
	"11": "Sikkim",
	"12": "Arunachal Pradesh",
	"13": "Nagaland",
	"14": "Manipur",
	"15": "Mizoram",
	"16": "Tripura",
	"17": "Meghalaya",
	"18": "Assam",
	"19": "West Bengal",
	"20": "Jharkhand",
	"21": "Odisha",
	"22": "Chhattisgarh",
	"23": "Madhya Pradesh",
	"24": "Gujarat",
	"25": "Daman and Diu",
	"26": "Dadra and Nagar Haveli and Daman and Diu",
	"27": "Maharashtra",
	"28": "Andhra Pradesh (Old)",
	"29": "Karnataka",
	"30": "Goa",
	"31": "Lakshadweep",
	"32": "Kerala",
	"33": "Tamil Nadu",
	"34": "Puducherry",
	"35": "Andaman and Nicobar Islands",
	"36": "Telangana",
	"37": "Andhra Pradesh",
	"38": "Ladakh",
}

// NormalizeGSTIN trims and upper-cases a GSTIN
func NormalizeGSTIN(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidateGSTIN reports whether s is a well-formed GSTIN with a recognised state code.
// The input is matched as given; callers normalise first if they accept lower case.
func ValidateGSTIN(s string) bool {
	if len(s) != GSTINLength {
		return false
	}
	if !gstinPattern.MatchString(s) {
		return false
	}
	_, ok := stateCodes[s[:2]]
	return ok
}

// ExtractStateCode returns the two digit state code of a valid GSTIN
func ExtractStateCode(s string) (string, bool) {
	if !ValidateGSTIN(s) {
		return "", false
	}
	return s[:2], true
}

// IsValidStateCode reports whether code is a recognised state code
func IsValidStateCode(code string) bool {
	_, ok := stateCodes[code]
	return ok
}

// StateName returns the state or union territory name for a code
func StateName(code string) string {
	return stateCodes[code]
}

// PAN returns the PAN embedded in a valid GSTIN (characters 3 to 12)
func PAN(s string) string {
	if !ValidateGSTIN(s) {
		return ""
	}
	return s[2:12]
}
