package v1

// BasePath is the prefix of every versioned route
const BasePath = "/api/v1"

// LegacyPortalPath is the unversioned portal validation route kept for existing callers
const LegacyPortalPath = "/validate-portal-fields"
