package version

// OSRandSemVer is the semantic version of the osrand library and CLI.
const OSRandSemVer = "0.1.0"
