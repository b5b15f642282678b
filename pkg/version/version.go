/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package version

// VersionCore is the core portion of the firewall-policy-analyzer CLI version per Semantic Versioning 2.0.0
const VersionCore = "0.1.0"
