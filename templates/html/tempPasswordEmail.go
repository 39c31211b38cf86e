package templates

import (
	"fmt"
	"html"
)

// RenderTempPassword generates the HTML for the new-account email that carries
// a temporary password. The password is HTML-escaped before interpolation.
func RenderTempPassword(firstName, tempPassword string) string {
	safeName := html.EscapeString(firstName)
	safePassword := html.EscapeString(tempPassword)

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>Your Account Is Ready</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f4f6f8; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background: linear-gradient(135deg, #1d976c 0%%, #2f80ed 100%%); padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 24px; font-weight: 700; }
    .content { padding: 40px 30px; color: #1f2933; line-height: 1.6; font-size: 15px; }
    .password-box { background: #eef2f7; border: 1px solid #d2dae6; border-radius: 8px; padding: 18px; margin: 20px 0; text-align: center; font-family: monospace; font-size: 20px; letter-spacing: 2px; }
    .footer { padding: 30px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Smart Vehicle Entry System</h1>
    </div>
    <div class="content">
      <h2>Hi %s,</h2>
      <p>An administrator has created an account for you. Use the temporary password below to sign in, then change it right away.</p>
      <div class="password-box">%s</div>
      <p>If you were not expecting this email, you can safely ignore it.</p>
    </div>
    <div class="footer">
      <p>&copy; Smart Vehicle Entry System</p>
    </div>
  </div>
</body>
</html>`, safeName, safePassword)
}
