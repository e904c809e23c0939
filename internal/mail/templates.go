package mail

import "fmt"

// VendorRegistered is the notice sent to the platform admin when a new
// vendor applies.
func VendorRegistered(vendorName, companyName, companyType, email, frontendURL string) Message {
	return Message{
		Subject: fmt.Sprintf("New Vendor Registration - %s", vendorName),
		HTML: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>New Vendor Registration</h2>
  <p><strong>Vendor:</strong> %s</p>
  <p><strong>Company:</strong> %s (%s)</p>
  <p><strong>Email:</strong> %s</p>
  <p>Please review and approve this vendor from the Admin Panel.</p>
  <a href="%s/admin/vendor-approvals">Review Vendor</a>
</div>`, vendorName, companyName, companyType, email, frontendURL),
	}
}

// VendorApproved is sent to a vendor whose account was approved.
func VendorApproved(vendorName, frontendURL string) Message {
	return Message{
		Subject: "Welcome to AI-MALL - Vendor Account Approved!",
		HTML: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Congratulations %s!</h2>
  <p>Your vendor account has been approved. You can now log in to your
  vendor dashboard, create and manage AI agents, and track revenue.</p>
  <a href="%s/vendor-login">Login to Dashboard</a>
</div>`, vendorName, frontendURL),
	}
}

// VendorRejected is sent to a vendor whose application was rejected.
func VendorRejected(vendorName, reason string) Message {
	return Message{
		Subject: "AI-MALL Vendor Application Update",
		HTML: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Vendor Application Status</h2>
  <p>Dear %s,</p>
  <p>Unfortunately, we cannot approve your application at this time.</p>
  <p><strong>Reason:</strong> %s</p>
  <p>You may reapply after addressing the concerns mentioned above.</p>
</div>`, vendorName, reason),
	}
}
