// Package uitest provides helpers for testing Bubble Tea components.
//
// [NewTestModel] runs a model in a teatest program with a fixed terminal
// size, and [Contains] builds conditions for [WaitFor]:
//
//	tm := uitest.NewTestModel(t, model, uitest.Standard)
//	tm.Send(tea.KeyMsg{Type: tea.KeyRight})
//	uitest.WaitFor(t, tm.Output(), uitest.Contains("11-20 of 75"))
//
// [ANSIStyleVerifier] checks the styles applied to rendered text:
//
//	uitest.SetupColorProfile()
//	v := uitest.NewANSIStyleVerifier(model.View())
//	v.ContainsStyledText(t, "[10]", uitest.StyleExpectation{
//	    Bold: uitest.Ptr(true),
//	})
package uitest
