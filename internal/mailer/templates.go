package mailer

import "fmt"

const confirmationSubject = "Booking Confirmed - Hebron Pentecostal Assembly"

const confirmationBody = `
<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #fff5eb;">
    <div style="max-width: 600px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1);">
        <h1 style="color: #ea580c; margin-bottom: 20px;">Booking Confirmed!</h1>
        <p>Dear %s,</p>
        <p>Your slot has been successfully booked for the online meeting.</p>
        <div style="background: #fff7ed; padding: 20px; border-radius: 8px; margin: 20px 0;">
            <p><strong>Role:</strong> Lead %s</p>
            <p><strong>Date:</strong> %s</p>
            <p><strong>Time:</strong> 8:00 PM - 9:00 PM (UK Time)</p>
        </div>
        <p>Thank you for your participation.</p>
        <div style="text-align: center; margin: 25px 0;">
            <a href="%s"
               style="display: inline-block; background: #2563eb; color: white; padding: 14px 28px; text-decoration: none; border-radius: 8px; font-weight: bold;">
                Join Zoom Meeting
            </a>
        </div>
        <p style="color: #666; font-size: 12px; margin-top: 30px;">
            If you need to make changes, please contact the admin.
        </p>
    </div>
</body>
</html>
`

const reminderSubject = "Reminder: Your slot is in 4 hours - Hebron Pentecostal Assembly"

const reminderBody = `
<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #fff5eb;">
    <div style="max-width: 600px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1);">
        <h1 style="color: #ea580c; margin-bottom: 20px;">Reminder: Meeting in 4 Hours!</h1>
        <p>Dear %s,</p>
        <p>This is a friendly reminder that you are scheduled to participate in today's online meeting.</p>
        <div style="background: #fff7ed; padding: 20px; border-radius: 8px; margin: 20px 0;">
            <p><strong>Role:</strong> Lead %s</p>
            <p><strong>Date:</strong> Today (%s)</p>
            <p><strong>Time:</strong> 8:00 PM - 9:00 PM (UK Time)</p>
        </div>
        <p style="color: #ea580c; font-weight: bold;">Please be ready to join 5-10 minutes early.</p>
        <p>Thank you for your participation.</p>
        <div style="text-align: center; margin: 25px 0;">
            <a href="%s"
               style="display: inline-block; background: #2563eb; color: white; padding: 14px 28px; text-decoration: none; border-radius: 8px; font-weight: bold;">
                Join Zoom Meeting
            </a>
        </div>
        <p style="color: #666; font-size: 12px; margin-top: 30px;">
            If you cannot attend, please contact the admin as soon as possible.
        </p>
    </div>
</body>
</html>
`

func Confirmation(to, fullName, role, date, zoomURL string) Message {
	return Message{
		To:      to,
		Subject: confirmationSubject,
		HTML:    fmt.Sprintf(confirmationBody, fullName, role, date, zoomURL),
	}
}

func Reminder(to, fullName, role, date, zoomURL string) Message {
	return Message{
		To:      to,
		Subject: reminderSubject,
		HTML:    fmt.Sprintf(reminderBody, fullName, role, date, zoomURL),
	}
}
