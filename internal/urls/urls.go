package urls

// Documentation URLs for guides and troubleshooting
// All URLs point to the documentation site at https://verhoek.github.io/huescout/

// GettingStarted is the quick start guide for new users
// to run their first bridge scan.
const GettingStarted = "https://verhoek.github.io/huescout/getting-started/overview/"

// DiscoveryMethods explains the four discovery probes, the order they
// run in, and which network conditions each one needs.
const DiscoveryMethods = "https://verhoek.github.io/huescout/discovery/methods/"

// TroubleshootingGuide provides solutions to common issues
// encountered when a bridge cannot be found on the network.
const TroubleshootingGuide = "https://verhoek.github.io/huescout/discovery/troubleshooting/"

// SimulatorGuide covers running the bridge simulator for development
// and testing without physical hardware.
const SimulatorGuide = "https://verhoek.github.io/huescout/simulator/overview/"

// HueAPIReference is the upstream CLIP API documentation for the
// unauthenticated config endpoint huescout relies on.
const HueAPIReference = "https://developers.meethue.com/develop/hue-api/"
